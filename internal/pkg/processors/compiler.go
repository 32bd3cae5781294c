package processors

import (
	"depmatch/internal/pkg/ast/casetree"
	"depmatch/internal/pkg/ast/pattern"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/common"
	"github.com/xyproto/env/v2"
)

type Options struct {
	// MaxDepth bounds nested splits; zero picks the limit from the equations.
	MaxDepth int
	Fuel     int
}

func DefaultOptions() Options {
	return Options{
		MaxDepth: env.Int("DEPMATCH_MAX_DEPTH", 0),
		Fuel:     env.Int("DEPMATCH_FUEL", DefaultFuel),
	}
}

// RecursionLimit is the automatic split depth bound for def.
func RecursionLimit(table *signature.Table, def *signature.Definition, equations []*pattern.Equation) int {
	limit := (len(def.Params) + 1) * (table.MaxArity() + 1)
	for _, eq := range equations {
		for _, p := range eq.Patterns {
			limit += pattern.CountConstructors(p)
		}
	}
	return limit
}

// Compile normalizes the equations of def, builds its case tree and checks it.
// Diagnostics go to log; on success the function is registered in environment.
func Compile(
	log *common.LogWriter,
	environment *Environment,
	def *signature.Definition,
	equations []*pattern.Equation,
	options Options,
) (*casetree.Function, *Report) {
	if err := environment.Declare(def); err != nil {
		log.Err(err)
		return nil, nil
	}

	evaluator := NewEvaluator(environment)
	if options.Fuel > 0 {
		evaluator.Fuel = options.Fuel
	}

	normalized, errs := NewNormalizer(environment, evaluator).Normalize(def, equations)
	if len(errs) > 0 {
		log.Err(errs...)
		return nil, nil
	}

	limit := options.MaxDepth
	if limit <= 0 {
		limit = RecursionLimit(environment.Table, def, normalized)
	}
	b := newBuilder(environment, evaluator, log, def, limit)
	body := b.build(b.root(normalized))
	if len(b.errs) > 0 {
		log.Err(b.errs...)
		return nil, nil
	}

	fn := &casetree.Function{Definition: def, Equations: len(equations), Body: body}
	report, warnings, err := Check(fn, normalized)
	log.Warn(warnings...)
	if err != nil {
		log.Err(err)
		return nil, report
	}
	if err := environment.Register(fn); err != nil {
		log.Err(err)
		return nil, report
	}
	log.Trace("%s: %d splits, %d contradictions", fn.Name(), report.Splits, report.Contradictions)
	return fn, report
}
