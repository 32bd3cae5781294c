package processors

import (
	"fmt"

	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
)

type UnifyKind int

const (
	Substituted UnifyKind = iota
	Mismatch
	Underdetermined
)

func (k UnifyKind) String() string {
	switch k {
	case Substituted:
		return "Substituted"
	case Mismatch:
		return "Mismatch"
	case Underdetermined:
		return "Underdetermined"
	}
	return fmt.Sprintf("UnifyKind(%d)", int(k))
}

// UnifyResult carries the extended substitution. For a Mismatch, Left and
// Right are the first pair of subterms found apart; for Underdetermined,
// the first pair still unsolved once no equality makes progress.
type UnifyResult struct {
	Kind  UnifyKind
	Subst term.Substitution
	Left  term.Term
	Right term.Term
}

type Unifier struct {
	reducer Reducer
	table   *signature.Table
}

func NewUnifier(reducer Reducer, table *signature.Table) *Unifier {
	return &Unifier{reducer: reducer, table: table}
}

type equality struct {
	left, right term.Term
}

// Unify solves left[i] = right[i] for all i on top of subst. Variables on
// either side are unknowns; when both sides are variables the left one is bound.
// Equalities that are stuck are retried after every pass that made progress,
// so a later binding can still unblock them.
func (u *Unifier) Unify(left, right []term.Term, subst term.Substitution) UnifyResult {
	if len(left) != len(right) {
		return UnifyResult{Kind: Mismatch, Subst: subst}
	}
	queue := make([]equality, 0, len(left))
	for i := range left {
		queue = append(queue, equality{left: left[i], right: right[i]})
	}

	result := UnifyResult{Kind: Substituted, Subst: subst}
	var stuck []equality
	progress := false
	for len(queue) > 0 || (progress && len(stuck) > 0) {
		if len(queue) == 0 {
			queue, stuck, progress = stuck, nil, false
		}
		eq := queue[0]
		queue = queue[1:]
		l := u.reduce(term.Apply(eq.left, result.Subst))
		r := u.reduce(term.Apply(eq.right, result.Subst))
		if l.EqualsTo(r) {
			continue
		}

		if lv, ok := l.(term.Var); ok {
			if s, kind := u.bind(lv, r, result.Subst); kind == Substituted {
				result.Subst = s
				progress = true
				continue
			} else if kind == Mismatch {
				return UnifyResult{Kind: Mismatch, Subst: subst, Left: l, Right: r}
			}
		} else if rv, ok := r.(term.Var); ok {
			if s, kind := u.bind(rv, l, result.Subst); kind == Substituted {
				result.Subst = s
				progress = true
				continue
			} else if kind == Mismatch {
				return UnifyResult{Kind: Mismatch, Subst: subst, Left: l, Right: r}
			}
		} else {
			lc, lok := l.(term.Ctor)
			rc, rok := r.(term.Ctor)
			if lok && rok {
				if lc.Name != rc.Name || len(lc.Args) != len(rc.Args) {
					return UnifyResult{Kind: Mismatch, Subst: subst, Left: l, Right: r}
				}
				for i := range lc.Args {
					queue = append(queue, equality{left: lc.Args[i], right: rc.Args[i]})
				}
				progress = true
				continue
			}
			if isValue(l) && isValue(r) {
				return UnifyResult{Kind: Mismatch, Subst: subst, Left: l, Right: r}
			}
		}
		stuck = append(stuck, equality{left: l, right: r})
	}

	if len(stuck) > 0 {
		result.Kind = Underdetermined
		result.Left, result.Right = stuck[0].left, stuck[0].right
	}
	return result
}

func (u *Unifier) bind(v term.Var, t term.Term, subst term.Substitution) (term.Substitution, UnifyKind) {
	if term.OccursRigid(v.Name, t) {
		return subst, Mismatch
	}
	if term.Occurs(v.Name, t) {
		return subst, Underdetermined
	}
	return subst.Extend(v.Name, t), Substituted
}

func (u *Unifier) reduce(t term.Term) term.Term {
	if lit, ok := t.(term.Lit); ok {
		if x, ok := u.table.ExpandNumeral(lit.Value); ok {
			t = x
		}
	}
	if u.reducer == nil {
		return t
	}
	return u.reducer.Reduce(t)
}

// isValue reports whether t is built from constructors and literals only at its head.
func isValue(t term.Term) bool {
	switch t.(type) {
	case term.Ctor, term.Lit:
		return true
	}
	return false
}

// Clash is the quick check run before full unification: it finds a position
// where both sides are headed by different constructors.
func (u *Unifier) Clash(left, right []term.Term) (int, bool) {
	for i := range left {
		if i >= len(right) {
			break
		}
		l, r := u.expand(left[i]), u.expand(right[i])
		lc, lok := l.(term.Ctor)
		rc, rok := r.(term.Ctor)
		if lok && rok && lc.Name != rc.Name {
			return i, true
		}
	}
	return -1, false
}

func (u *Unifier) expand(t term.Term) term.Term {
	if lit, ok := t.(term.Lit); ok {
		if x, ok := u.table.ExpandNumeral(lit.Value); ok {
			return x
		}
	}
	return t
}
