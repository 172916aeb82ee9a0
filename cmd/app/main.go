package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sauravcode/internal/evaluator"
	"sauravcode/internal/foreign"
	"sauravcode/internal/lexer"
	"sauravcode/internal/object"
	"sauravcode/internal/parser"
	"sauravcode/internal/repl"
	"sauravcode/internal/util"
)

var (
	// Version is stamped at build time via -ldflags.
	Version   = "2.2.0"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configFile string
	rootPath   string
	debugAST   bool
	callDepth  int
	loopIter   int
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configFile, "config", "", "Path to a TOML configuration file")
	flag.StringVar(&rootPath, "root", ".", "Set the root context for the program")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Render the AST as a JSON file")
	// safety limits
	flag.IntVar(&callDepth, "max-call-depth", 0, "Maximum function call depth (0 uses the default)")
	flag.IntVar(&loopIter, "max-loop-iterations", 0, "Maximum loop iterations (0 uses the default)")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
	}
	if configFile != "" {
		if err := config.LoadConfigFile(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config file '%s': %v\n", configFile, err)
			os.Exit(1)
		}
	}
	applyFlagOverrides(&config)

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
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

	filename := flag.Arg(0)
	if filename == "" {
		fmt.Printf("SauravCode v%s REPL (exit with Ctrl-D)\n", Version)
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	os.Exit(runFile(filename, config))
}

// applyFlagOverrides lets explicitly passed flags win over the config file.
func applyFlagOverrides(config *util.Configuration) {
	if config.RootPath == "" {
		config.RootPath = rootPath
	}
	if config.LogLevel == "" {
		config.LogLevel = logLevel
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			config.RootPath = rootPath
		case "debug-ast":
			config.DebugAST = debugAST
		case "max-call-depth":
			config.MaxCallDepth = callDepth
		case "max-loop-iterations":
			config.MaxLoopIterations = loopIter
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		}
	})
}

func runFile(filename string, config util.Configuration) int {
	if !strings.HasSuffix(filename, ".srv") {
		fmt.Fprintln(os.Stderr, "Error: The file must have a .srv extension.")
		return 1
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: File '%s' does not exist.\n", filename)
		} else {
			fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", filename, err)
		}
		return 1
	}

	tokens, err := lexer.Tokenize(string(source))
	if err != nil {
		reportSourceError(filename, string(source), err)
		return 1
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		reportSourceError(filename, string(source), err)
		return 1
	}

	if config.DebugAST {
		rendered, err := parser.RenderASTAsJSON(program)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering AST: %v\n", err)
			return 1
		}
		astFile := filename + ".ast.json"
		if err := os.WriteFile(astFile, []byte(rendered), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing AST file '%s': %v\n", astFile, err)
			return 1
		}
		slog.Info("wrote AST dump", "file", astFile)
	}

	interp := evaluator.NewWithOptions(evaluator.Options{
		MaxCallDepth:      config.MaxCallDepth,
		MaxLoopIterations: config.MaxLoopIterations,
	})
	interp.RegisterExtensions(foreign.Builtins())

	result := interp.Run(program)
	switch r := result.(type) {
	case *object.Error:
		fmt.Fprintf(os.Stderr, "Runtime error: %s\n", r.Message)
		return 1
	case *object.ThrownError:
		fmt.Fprintf(os.Stderr, "Uncaught error: %s\n", r.Value.Inspect())
		return 1
	}
	return 0
}

// reportSourceError prints a syntax error, with a caret pointing into the
// offending line when the error carries a position.
func reportSourceError(filename, source string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
	var pe *util.PosError
	if errors.As(err, &pe) {
		fmt.Fprint(os.Stderr, util.SourceContext(source, pe.Line, pe.Column))
	}
}

func configureLogWriter(logFile string) *os.File {
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
	fmt.Printf("sauravcode version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: sauravcode [options] [filename.srv]

Options:
  -config <path>            Load settings from a TOML configuration file.
  -root <path>              Set the root context for the program. Default is '.'
  -debug-ast                Render the AST as a JSON file next to the script.
  -max-call-depth <n>       Maximum function call depth. Default is 1000.
  -max-loop-iterations <n>  Maximum loop iterations. Default is 1000000.
  -help                     Display this help information and exit.
  -version                  Display version information and exit.
  -log-level <level>        Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>          Specify a log file to write logs. Default is stderr.

Details:
This is the SauravCode programming language.

Examples:
  sauravcode                        Start the interactive REPL
  sauravcode myfile.srv             Execute the provided SauravCode file
  sauravcode -debug-ast myfile.srv  Execute the file and dump its AST as JSON

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
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
