// Command lox runs Lox scripts or an interactive prompt.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	lox "github.com/xirelogy/go-lox"
	"github.com/xirelogy/go-lox/internal/config"
)

const (
	exitUsage   = 64
	exitIOError = 74
)

var log = commonlog.GetLogger("lox.cli")

func main() {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, interactive))
}

// options is the effective configuration after flags override lox.toml.
type options struct {
	cfg  *config.Config
	path string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: lox [flags] [path]")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Path to lox.toml (default: search upwards from the working directory)")
	trace := fs.Bool("trace", false, "Log every executed instruction at debug level")
	disassemble := fs.Bool("disassemble", false, "Print the compiled bytecode before running")
	tokens := fs.Bool("tokens", false, "Print the token stream before compiling")
	verbosity := fs.Int("verbosity", 0, "Log verbosity (higher is more verbose)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return nil, errors.New("too many arguments")
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trace":
			cfg.Debug.Trace = *trace
		case "disassemble":
			cfg.Debug.Disassemble = *disassemble
		case "tokens":
			cfg.Debug.Tokens = *tokens
		case "verbosity":
			cfg.Log.Verbosity = *verbosity
		}
	})
	// trace lines are debug messages
	if cfg.Debug.Trace && cfg.Log.Verbosity < 2 {
		cfg.Log.Verbosity = 2
	}
	return &options{cfg: cfg, path: fs.Arg(0)}, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, interactive bool) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return exitUsage
	}
	cfg := opts.cfg

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)
	if cfg.Path != "" {
		log.Infof("loaded configuration from %s", cfg.Path)
	}

	in := lox.New()
	defer in.Close()
	in.SetOutput(stdout)
	in.SetErrorOutput(stderr)
	if cfg.Debug.Trace {
		in.SetTraceHook(logTrace)
	}

	s := &session{in: in, cfg: cfg, stdout: stdout}
	if opts.path == "" {
		return s.repl(stdin, interactive)
	}
	return s.runFile(opts.path, stderr)
}

func logTrace(info lox.TraceInfo) {
	log.Debugf("%04d %4d %-16s [ %s ]", info.IP, info.Line, info.OpName, strings.Join(info.Stack, " ][ "))
}

type session struct {
	in     *lox.Interpreter
	cfg    *config.Config
	stdout io.Writer
}

// execute runs one unit of source, emitting any requested dumps first.
func (s *session) execute(source string) lox.Result {
	if s.cfg.Debug.Tokens {
		lox.DumpTokens(source, s.stdout)
	}
	if s.cfg.Debug.Disassemble {
		// compile errors are reported by Run below
		if err := s.in.Disassemble(source, s.stdout); err != nil {
			log.Debugf("disassembly skipped: %s", lox.ResultOf(err))
		}
	}
	return s.in.Run(source)
}

func (s *session) runFile(path string, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Could not open file \"%s\": %v\n", path, err)
		return exitIOError
	}
	log.Debugf("running %s", path)
	return s.execute(string(data)).ExitCode()
}
