// Package repl is the interactive session host. Line editing, history and
// tab completion come from peterh/liner; completion covers registered
// operation identifiers plus the variables bound so far.
package repl

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"mathlang/internal/evaluator"
	"mathlang/internal/object"
	"mathlang/internal/operation"
)

const prompt = ">>> "

type Repl struct {
	registry    *operation.Registry
	eval        *evaluator.Evaluator
	session     *object.Session
	historyFile string
	out         io.Writer
}

func New(registry *operation.Registry, eval *evaluator.Evaluator, historyFile string, out io.Writer) *Repl {
	return &Repl{
		registry:    registry,
		eval:        eval,
		session:     object.NewSession(),
		historyFile: historyFile,
		out:         out,
	}
}

// Start runs the read-eval-print loop until exit, quit or EOF.
func (r *Repl) Start(version string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(r.complete)

	if f, err := os.Open(r.historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(r.historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(r.out, "MathLang v%s\n", version)
	fmt.Fprintln(r.out, "Type expressions to evaluate. Type 'exit' or 'quit' to exit.")
	fmt.Fprintln(r.out, "Type 'vars' to list variables, 'ops' to list operations, 'clear' to clear.")
	fmt.Fprintln(r.out, "")

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(r.out, "^C")
				continue
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		line.AppendHistory(input)

		if r.command(trimmed) {
			return
		}
	}
}

// command dispatches REPL keywords; anything else evaluates as source.
// Returns true when the loop should terminate.
func (r *Repl) command(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true
	case "vars":
		r.printVars()
	case "ops":
		r.printOps()
	case "clear":
		r.session.Clear()
		fmt.Fprintln(r.out, "Variables cleared")
	default:
		r.evalLine(input)
	}
	return false
}

func (r *Repl) evalLine(source string) {
	results, err := r.eval.EvalScript(source, r.session)
	for _, result := range results {
		if result.IsAssignment {
			fmt.Fprintf(r.out, "  %s = %s\n", result.VariableName, result.Value.Inspect())
			continue
		}
		fmt.Fprintf(r.out, "  %s (%s)\n", result.Value.Inspect(), result.TypeName)
	}
	if err != nil {
		fmt.Fprintf(r.out, "  %s\n", err.Inspect())
	}
}

func (r *Repl) printVars() {
	names := r.session.VariableNames()
	if len(names) == 0 {
		fmt.Fprintln(r.out, "No variables defined")
		return
	}
	vars := r.session.Variables()
	for _, name := range names {
		value := vars[name]
		fmt.Fprintf(r.out, "  %s = %s (%s)\n", name, value.Inspect(), value.TypeName())
	}
}

func (r *Repl) printOps() {
	ops := r.registry.All()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Identifier
	}
	sort.Strings(names)
	fmt.Fprintln(r.out, strings.Join(names, ", "))
}

// complete offers the identifiers that could follow the last word typed.
func (r *Repl) complete(line string) []string {
	start := strings.LastIndexAny(line, " \t(,+-*/%^<>=!&|[") + 1
	head, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var candidates []string
	for _, op := range r.registry.All() {
		candidates = append(candidates, op.Identifier)
	}
	candidates = append(candidates, r.session.VariableNames()...)

	var matches []string
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, word) {
			matches = append(matches, head+candidate)
		}
	}
	sort.Strings(matches)
	return matches
}
