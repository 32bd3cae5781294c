package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/common"
	"depmatch/internal/pkg/lsp"
	"depmatch/internal/pkg/processors"
	depmatch "depmatch/pkg"
	"github.com/peterh/liner"
	"github.com/xyproto/env/v2"
)

const (
	Version     = "0.1.0"
	historyFile = ".depmatch_history"
)

func main() {
	defaults := processors.DefaultOptions()
	tree := flag.Bool("tree", false, "print compiled case trees")
	asLsp := flag.Bool("lsp", false, "print diagnostics as language server publishDiagnostics JSON")
	eval := flag.String("eval", "", "evaluate a term, e.g. `[add, 2, 3]`")
	repl := flag.Bool("repl", false, "start an interactive evaluator after compiling")
	maxDepth := flag.Int("max-depth", defaults.MaxDepth, "split depth limit (0 picks it from the equations)")
	trace := flag.Bool("trace", env.Bool("DEPMATCH_TRACE"), "log builder decisions")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("depmatch version: %s\n", Version)
		return
	}

	log := &common.LogWriter{Verbose: *trace}
	if len(flag.Args()) != 1 {
		log.Err(common.NewSystemError(fmt.Errorf("expected one definition file, run as `depmatch <file.yaml>`")))
		log.Flush(os.Stdout)
		os.Exit(2)
	}

	options := defaults
	options.MaxDepth = *maxDepth
	program := depmatch.CompileFile(flag.Args()[0], options, log)

	if *asLsp {
		params, unlocated := lsp.Diagnostics(log)
		log.Err(unlocated...)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(params); err != nil {
			log.Err(common.NewSystemError(err))
		}
		failed := log.HasErrors()
		log.Flush(os.Stderr)
		if failed {
			os.Exit(1)
		}
		return
	}

	if program != nil && *tree {
		for _, fn := range program.Functions {
			fmt.Println(fn)
		}
	}
	if program != nil && *eval != "" {
		if result, err := program.Eval(*eval); err != nil {
			log.Err(err)
		} else {
			fmt.Println(result)
		}
	}

	failed := log.HasErrors()
	log.Flush(os.Stdout)
	if program != nil && *repl {
		runRepl(program)
		return
	}
	if failed {
		os.Exit(1)
	}
}

func runRepl(program *depmatch.Program) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("depmatch %s, type a term like `[add, 2, 3]`, :functions or :types to list, :quit to exit\n", Version)
	for {
		line, err := ln.Prompt("> ")
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				fmt.Fprintln(os.Stderr, err)
			}
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		switch line {
		case ":quit":
			return
		case ":functions":
			for _, fn := range program.Functions {
				fmt.Println(fn.Definition)
			}
			continue
		case ":types":
			for _, it := range program.Table().Types() {
				fmt.Printf("%s: %s\n", it.Name, strings.Join(common.Map(func(c *signature.Constructor) string {
					return string(c.Name)
				}, it.Constructors), " | "))
			}
			continue
		}
		if strings.HasPrefix(line, ":tree ") {
			name := strings.TrimSpace(strings.TrimPrefix(line, ":tree "))
			found := false
			for _, fn := range program.Functions {
				if string(fn.Name()) == name {
					fmt.Print(fn)
					found = true
				}
			}
			if !found {
				fmt.Printf("unknown function `%s`\n", name)
			}
			continue
		}

		result, err := program.Eval(line)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(result)
	}
}
