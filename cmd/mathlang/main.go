package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"mathlang/internal/config"
	"mathlang/internal/evaluator"
	"mathlang/internal/object"
	"mathlang/internal/operation"
	"mathlang/internal/providers"
	"mathlang/internal/repl"
	"mathlang/internal/runner"
	"mathlang/internal/server"
	"mathlang/internal/store"
)

var (
	// Version is set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// config
	configPath     string
	recursionLimit int
	// run
	scriptVars stringList
	watch      bool
	// serve
	listenAddr string
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// engine config
	flag.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	flag.IntVar(&recursionLimit, "recursion-limit", 0, "Maximum evaluation depth (overrides config)")
	// run config
	flag.Var(&scriptVars, "var", "Pre-bind a variable (format: name=value, repeatable)")
	flag.BoolVar(&watch, "watch", false, "Re-run the script whenever the file changes")
	// serve config
	flag.StringVar(&listenAddr, "addr", "", "HTTP listen address (overrides config)")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(logLevel),
	}
	logWriter := configureLogWriter()
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if recursionLimit > 0 {
		cfg.RecursionLimit = recursionLimit
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	registry := operation.NewRegistry()
	if err := operation.RegisterProviders(registry, providers.All()...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	eval := evaluator.NewWithDepth(registry, cfg.RecursionLimit)

	switch flag.Arg(0) {
	case "", "repl":
		repl.New(registry, eval, cfg.HistoryFile, os.Stdout).Start(Version)
	case "eval":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Error: eval requires an expression")
			os.Exit(1)
		}
		if !evalExpression(eval, strings.Join(flag.Args()[1:], " ")) {
			os.Exit(1)
		}
	case "run":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Error: run requires a script file")
			os.Exit(1)
		}
		runScript(eval, flag.Arg(1))
	case "serve":
		serve(registry, cfg)
	case "ops":
		printOps(registry)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func evalExpression(eval *evaluator.Evaluator, source string) bool {
	session := object.NewSession()
	results, err := eval.EvalScript(source, session)
	for _, result := range results {
		fmt.Printf("%s (%s)\n", result.Value.Inspect(), result.TypeName)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Inspect())
		return false
	}
	return true
}

func runScript(eval *evaluator.Evaluator, path string) {
	if filepath.Ext(path) != ".mlang" {
		fmt.Fprintf(os.Stderr, "Warning: expected .mlang extension, got %s\n", filepath.Ext(path))
	}

	vars, err := runner.ParseVars(scriptVars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	r := runner.New(eval, os.Stdout, os.Stderr)
	if watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := r.Watch(ctx, path, vars); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if !r.RunFile(path, vars) {
		os.Exit(1)
	}
}

func serve(registry *operation.Registry, cfg config.Config) {
	var st *store.Store
	if cfg.Store.Driver != "" {
		opened, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer opened.Close()
		st = opened
	}

	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	srv := server.New(registry, cfg.RecursionLimit, ttl, st)
	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printOps(registry *operation.Registry) {
	category := ""
	for _, op := range registry.All() {
		if op.Category != category {
			category = op.Category
			fmt.Printf("\n%s\n", category)
		}
		fmt.Printf("  %-18s %s\n", op.Identifier, op.Description)
	}
}

func configureLogWriter() *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("mathlang version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: mathlang [options] [command [args...]]

Commands:
  repl                Start an interactive session (default).
  eval <expression>   Evaluate a single expression and exit.
  run <file.mlang>    Run a script file.
  serve               Host evaluation sessions over HTTP.
  ops                 List all registered operations.

Options:
  -config <path>           Load settings from a TOML file.
  -recursion-limit <n>     Maximum evaluation depth (overrides config).
  -var name=value          Pre-bind a variable for 'run' (repeatable).
  -watch                   Re-run the script whenever the file changes.
  -addr <addr>             HTTP listen address for 'serve' (overrides config).
  -help                    Display this help information and exit.
  -version                 Display version information and exit.
  -log-level <level>       Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>         Specify a log file to write logs. Default is stderr.

Examples:
  mathlang                          Start the REPL
  mathlang eval "2 + 3 * 4"         Evaluate one expression
  mathlang -var x=10 run calc.mlang Run a script with x bound to 10
  mathlang -addr :8600 serve        Start the HTTP session host

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
