package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Veraticus/sniffnotify/pkg/config"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		configPath string
		interval   time.Duration
		quiet      bool
		debug      bool
		help       bool
	)

	fs := flag.NewFlagSet("sniffnotify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "Path to config file")
	fs.DurationVar(&interval, "interval", 0, "Notifier interval (overrides config)")
	fs.BoolVar(&quiet, "quiet", false, "Disable the periodic notifier")
	fs.BoolVar(&debug, "debug", os.Getenv("SNIFFNOTIFY_DEBUG") == "1", "Enable debug logging")
	fs.BoolVarP(&help, "help", "h", false, "Show help message")

	if err := fs.Parse(argv); err != nil {
		return 2
	}

	args := fs.Args()
	if help || len(args) == 0 {
		printUsage(stdout, fs)
		if help {
			return 0
		}
		return 2
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		configPath = config.Path()
		cfg, err = config.Load()
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	// Command line flags win over config
	if interval > 0 {
		cfg.Notifier.Interval = interval
	}
	if quiet {
		cfg.Quiet = true
	}

	command, rest := args[0], args[1:]

	interactive := false
	if command == "watch" {
		interactive = isTerminal(stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := NewDependencies(cfg, Options{
		Out:         stdout,
		Err:         stderr,
		Interactive: interactive,
		Logger:      logger,
		Context:     ctx,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error creating dependencies: %v\n", err)
		return 1
	}
	defer deps.Close()
	app := NewApplication(deps)

	logger.Debug("starting", "command", command, "config", configPath, "interval", cfg.Notifier.Interval, "quiet", cfg.Quiet)

	switch command {
	case "mime":
		if len(rest) == 0 {
			_, _ = fmt.Fprintln(stderr, "Usage: sniffnotify mime PATH...")
			return 2
		}
		if failed := app.Classify(rest, stdout, stderr); failed > 0 {
			return 1
		}
		return 0

	case "watch":
		if err := app.Watch(ctx); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0

	case "serve":
		if err := app.Serve(ctx, stdin); err != nil {
			logger.Error("serve failed", "error", err)
			return 1
		}
		return 0

	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command %q\n\n", command)
		printUsage(stderr, fs)
		return 2
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintln(w, "sniffnotify - content sniffing and periodic UI notifications")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage: sniffnotify [OPTIONS] COMMAND [ARGS...]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  mime PATH...   Print the MIME type and extension of each file")
	_, _ = fmt.Fprintln(w, "  watch          Emit the periodic notification until interrupted")
	_, _ = fmt.Fprintln(w, "  serve          Answer JSON-line commands on stdin; events and replies go to stdout")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Options:")
	_, _ = fmt.Fprint(w, fs.FlagUsages())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Environment Variables:")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_CONFIG        Path to config file")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_INTERVAL      Notifier interval (default: 2s)")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_SURFACE       Target surface id (default: main)")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_MESSAGE       Notification text (default: LRT Message)")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_HEADER_SIZE   Bytes read for sniffing (default: 8192)")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_QUIET         Disable the notifier (true/false)")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_CONSOLE       Also print events as text on stderr (true/false)")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_DESKTOP       Mirror notifications to the desktop (true/false)")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_NTFY_TOPIC    Mirror notifications to an ntfy topic")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_NTFY_SERVER   Ntfy server URL (default: https://ntfy.sh)")
	_, _ = fmt.Fprintln(w, "  SNIFFNOTIFY_DEBUG         Set to 1 for debug logging")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Configuration file: ~/.config/sniffnotify/config.yaml")
}
