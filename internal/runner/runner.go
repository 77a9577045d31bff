// Package runner executes script files. Watch mode re-runs the script on
// save using fsnotify, with a fresh session each run.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"mathlang/internal/evaluator"
	"mathlang/internal/object"
)

// debounce window for editors that fire several events per save
const debounceInterval = 100 * time.Millisecond

type Runner struct {
	eval *evaluator.Evaluator
	out  io.Writer
	errw io.Writer
}

func New(eval *evaluator.Evaluator, out, errw io.Writer) *Runner {
	return &Runner{eval: eval, out: out, errw: errw}
}

// ParseVars turns -var name=value pairs into bindings. Values that parse
// as numbers bind as numbers, everything else binds as a string.
func ParseVars(pairs []string) (map[string]object.Object, error) {
	vars := make(map[string]object.Object, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid variable format %q (expected name=value)", pair)
		}
		vars[name] = parseValue(raw)
	}
	return vars, nil
}

func parseValue(raw string) object.Object {
	if !strings.Contains(raw, ".") {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return &object.Integer{Value: n}
		}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return &object.Float{Value: f}
	}
	return &object.String{Value: raw}
}

// RunFile evaluates a script, printing one line per non-assignment result.
// Returns false when the script failed to parse or evaluate.
func (r *Runner) RunFile(path string, vars map[string]object.Object) bool {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.errw, "Error: %v\n", err)
		return false
	}

	session := object.NewSession()
	for name, value := range vars {
		session.Set(name, value)
	}

	results, evalErr := r.eval.EvalScript(string(source), session)
	for _, result := range results {
		if result.IsAssignment {
			continue
		}
		fmt.Fprintf(r.out, "%s (%s)\n", result.Value.Inspect(), result.TypeName)
	}
	if evalErr != nil {
		fmt.Fprintf(r.errw, "Error: %s\n", evalErr.Inspect())
		return false
	}
	return true
}

// Watch runs the script, then re-runs it every time the file changes,
// until the context is cancelled.
func (r *Runner) Watch(ctx context.Context, path string, vars map[string]object.Object) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that save by rename
	// replace the inode and a file watch would go stale.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	r.RunFile(path, vars)
	fmt.Fprintf(r.out, "Watching %s (Ctrl+C to stop)\n", path)

	var lastRun time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			eventAbs, err := filepath.Abs(event.Name)
			if err != nil || eventAbs != abs {
				continue
			}
			if time.Since(lastRun) < debounceInterval {
				continue
			}
			lastRun = time.Now()
			fmt.Fprintf(r.out, "\n--- %s changed, re-running ---\n", filepath.Base(path))
			r.RunFile(path, vars)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", slog.Any("error", err))
		}
	}
}
