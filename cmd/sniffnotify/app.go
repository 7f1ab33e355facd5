package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Veraticus/sniffnotify/pkg/config"
	"github.com/Veraticus/sniffnotify/pkg/ipc"
	"github.com/Veraticus/sniffnotify/pkg/notification"
	"github.com/Veraticus/sniffnotify/pkg/sniff"
	"github.com/Veraticus/sniffnotify/pkg/surface"
)

// Options control how the host wires its surfaces.
type Options struct {
	// Out carries event frames and command responses.
	Out io.Writer

	// Err receives the console surface when Out is reserved for frames.
	Err io.Writer

	// Interactive prints events as text on Out instead of frames.
	Interactive bool

	Logger *slog.Logger

	// Context bounds remote deliveries. Defaults to context.Background.
	Context context.Context
}

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Sniffer  *sniff.Sniffer
	Stream   *ipc.Stream
	Router   *ipc.Router
	Surfaces *surface.Registry
	Notifier *notification.Notifier

	ctx     context.Context
	cancel  context.CancelFunc
	mirrors []*surface.Async
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config, opts Options) (*Dependencies, error) {
	if opts.Out == nil {
		return nil, errors.New("output writer is required")
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	deps := &Dependencies{
		Config:   cfg,
		Logger:   opts.Logger,
		Sniffer:  sniff.New(sniff.WithHeaderSize(cfg.Sniff.HeaderSize)),
		Stream:   ipc.NewStream(opts.Out),
		Router:   ipc.NewRouter(),
		Surfaces: surface.NewRegistry(),
	}
	deps.ctx, deps.cancel = context.WithCancel(opts.Context)

	ipc.RegisterSniffer(deps.Router, deps.Sniffer)

	deps.Surfaces.Register(cfg.Notifier.Surface, deps.buildSurface(opts))
	deps.Notifier = notification.New(cfg.NotificationConfig(), deps.Surfaces)

	return deps, nil
}

// Close cancels in-flight mirror deliveries and waits for them to finish.
func (d *Dependencies) Close() {
	d.cancel()
	for _, m := range d.mirrors {
		m.Wait()
	}
}

// buildSurface assembles the surface registered under the notifier's id.
func (d *Dependencies) buildSurface(opts Options) surface.Surface {
	cfg := d.Config
	var members surface.Multi

	if opts.Interactive {
		members = append(members, surface.NewConsole(opts.Out))
	} else {
		members = append(members, surface.NewWindow(cfg.Notifier.Surface, d.Stream))
		if cfg.Console {
			members = append(members, surface.NewConsole(opts.Err))
		}
	}

	if cfg.Desktop.Enabled {
		d.Logger.Debug("desktop notifications enabled", "title", cfg.Desktop.Title)
		members = append(members, d.mirror(surface.NewDesktop(cfg.Desktop.Title)))
	}

	if cfg.NtfyTopic != "" {
		d.Logger.Debug("ntfy surface enabled", "server", cfg.NtfyServer, "topic", cfg.NtfyTopic)
		ntfy := surface.NewNtfy(cfg.NtfyServer, cfg.NtfyTopic).WithContext(d.ctx)
		members = append(members, d.mirror(ntfy))
	}

	if len(members) == 1 {
		return members[0]
	}
	return members
}

// mirror throttles s and moves its deliveries off the notifier's goroutine.
func (d *Dependencies) mirror(s surface.Surface) surface.Surface {
	m := surface.NewAsync(d.throttle(s))
	d.mirrors = append(d.mirrors, m)
	return m
}

// throttle wraps s with its own token bucket when rate limiting is configured.
func (d *Dependencies) throttle(s surface.Surface) surface.Surface {
	rl := d.Config.RateLimit
	if rl.MaxMessages <= 0 || rl.Window <= 0 {
		return s
	}
	return surface.NewThrottled(s, notification.NewTokenBucketRateLimiter(rl.MaxMessages, rl.Window))
}

// Application represents the main application
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Classify prints "path<TAB>mime<TAB>extension" for each path to out and
// reports failures to errOut. It returns the number of failures.
func (a *Application) Classify(paths []string, out, errOut io.Writer) int {
	failed := 0
	for _, path := range paths {
		res, err := a.deps.Sniffer.Classify(path)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(errOut, "%s: %v\n", path, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", path, res.MIMEType, res.Extension)
	}
	return failed
}

// Watch runs the notifier until ctx is cancelled.
func (a *Application) Watch(ctx context.Context) error {
	if !a.deps.Config.NotifierEnabled() {
		return errors.New("notifier is disabled (quiet mode or notifier.enabled=false)")
	}

	a.runNotifier(ctx)
	return nil
}

// Serve answers commands read from in while the notifier runs alongside.
// It returns when in is exhausted or ctx is cancelled.
func (a *Application) Serve(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.deps.Config.NotifierEnabled() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.runNotifier(ctx)
		}()
	}

	a.deps.Logger.Debug("serving commands", "commands", a.deps.Router.Commands())
	err := ipc.Serve(ctx, in, a.deps.Stream, a.deps.Router)

	cancel()
	wg.Wait()
	return err
}

func (a *Application) runNotifier(ctx context.Context) {
	cfg := a.deps.Notifier.Config()
	a.deps.Logger.Info("notifier started",
		"interval", cfg.Interval,
		"surface", cfg.Surface,
		"event", cfg.Event)

	a.deps.Notifier.Run(ctx)

	a.deps.Logger.Info("notifier stopped", "ticks", a.deps.Notifier.Ticks())
}
