package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/swirl"
	"github.com/gogpu/swirl/internal/display/terminal"
	"github.com/gogpu/swirl/internal/logging"
	"github.com/gogpu/swirl/internal/metrics"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play the animated background in the terminal",
	Long: `Runs a tick-driven animator and plays its deliveries in the terminal.
Keys: 1/2/3 switch to pending/active/weakSignal, s starts or stops the
animation, q or Esc quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		withClone, _ := cmd.Flags().GetBool("clone")
		logFile, _ := cmd.Flags().GetString("log-file")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		if metricsAddr == "" {
			metricsAddr = cfg.Metrics.Addr
		}

		// The screen owns the terminal; logs go to a file or nowhere.
		swirl.SetLogger(nil)
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path is user-provided intentionally
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			swirl.SetLogger(logging.NewWriter(f, cfg.LogLevel()))
		}

		opts, err := cfg.Options()
		if err != nil {
			return err
		}
		var collector *metrics.Collector
		if metricsAddr != "" {
			collector = metrics.NewCollector()
			opts = append(opts, swirl.WithObserver(collector))
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()

		p := newPreview(screen, withClone, opts)
		defer p.close()

		if collector != nil {
			collector.WatchCache(p.animator.CacheStats)
			srv := &http.Server{
				Addr:              metricsAddr,
				Handler:           newRouter(collector, p.animator),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				swirl.Logger().Info("metrics server listening", "addr", metricsAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					swirl.Logger().Error("metrics server failed", "error", err)
				}
			}()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()
		}

		return p.run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Bool("clone", true, "Show the dimmed clone next to the primary view")
	previewCmd.Flags().String("log-file", "", "Write logs to this file")
	previewCmd.Flags().String("metrics-addr", "", "Serve /metrics and /healthz on this address (default from config)")
}

// preview drives one animator on a tcell screen.
type preview struct {
	screen   tcell.Screen
	primary  *terminal.Display
	clone    *terminal.Display
	animator *swirl.Animator
}

var stateKeys = map[rune]swirl.ContentState{
	'1': swirl.StatePending,
	'2': swirl.StateActive,
	'3': swirl.StateWeakSignal,
}

func newPreview(screen tcell.Screen, withClone bool, opts []swirl.Option) *preview {
	p := &preview{screen: screen}
	p.primary = terminal.New(screen, image.Rectangle{})
	p.animator = swirl.NewAnimator(p.primary, opts...)
	if withClone {
		p.clone = terminal.New(screen, image.Rectangle{})
		p.animator.RegisterClone(p.clone)
	}
	p.resize()
	return p
}

// resize splits the screen between the views, keeping the last row for
// the status line, and lays the animator out at the view's pixel size.
func (p *preview) resize() {
	w, h := p.screen.Size()
	rows := max(1, h-1)
	cols := w
	if p.clone != nil {
		cols = max(1, w/2)
		p.clone.SetArea(image.Rect(cols, 0, cols*2, rows))
	}
	p.primary.SetArea(image.Rect(0, 0, cols, rows))

	if err := p.animator.SetSize(swirl.Size{Width: cols, Height: rows * 2}); err != nil {
		swirl.Logger().Warn("preview: layout rejected", "error", err)
	}
}

// handle applies one event and reports whether the preview should quit.
func (p *preview) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if ev.Key() != tcell.KeyRune {
			return false
		}
		switch r := ev.Rune(); r {
		case 'q':
			return true
		case 's':
			if p.animator.Animating() {
				p.animator.Stop()
			} else {
				p.animator.Start()
			}
		default:
			if state, ok := stateKeys[r]; ok {
				if err := p.animator.Update(state); err != nil {
					swirl.Logger().Warn("preview: state rejected", "error", err)
				}
			}
		}

	case *tcell.EventResize:
		p.screen.Sync()
		p.resize()
	}
	return false
}

func (p *preview) status() string {
	mode := "stopped"
	if p.animator.Animating() {
		mode = "animating"
	}
	return fmt.Sprintf(" %s  phase %d  %s   [1/2/3] state  [s] start/stop  [q] quit",
		p.animator.State(), p.animator.Phase(), mode)
}

func (p *preview) drawStatus() {
	w, h := p.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	text := []rune(p.status())
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(text) {
			r = text[x]
		}
		p.screen.SetContent(x, h-1, r, nil, style)
	}
	p.screen.Show()
}

func (p *preview) run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go p.screen.ChannelEvents(events, quit)
	defer close(quit)

	p.animator.Start()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		p.drawStatus()
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || p.handle(ev) {
				return nil
			}
		case <-ticker.C:
		}
	}
}

func (p *preview) close() {
	p.animator.Close()
	p.primary.Close()
	if p.clone != nil {
		p.clone.Close()
	}
}
