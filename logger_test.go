package swirl

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// captureLogs installs a text logger at level for the duration of the test.
func captureLogs(t *testing.T, level slog.Level) *syncBuffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	buf := &syncBuffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})))
	return buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNopHandler(t *testing.T) {
	var h slog.Handler = nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("Handle() = %v", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("phase", 1)}).(nopHandler); !ok {
		t.Error("WithAttrs should stay silent")
	}
	if _, ok := h.WithGroup("animator").(nopHandler); !ok {
		t.Error("WithGroup should stay silent")
	}
}

func TestSetLoggerNil(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)
	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) left a nil logger")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestRenderLogsAtDebug(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	if _, err := Render(Size{Width: 4, Height: 4}, StateActive.Palette(), PositionsAt(0), 1); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "rendered gradient") || !strings.Contains(out, "size=4x4") {
		t.Errorf("missing render record: %s", out)
	}
}

func TestAnimatorLifecycleLogs(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	a := NewAnimator(DisplayFunc(func(d *Delivery) { d.Done() }), WithMaxSize(Size{Width: 4, Height: 4}))
	if err := a.SetSize(Size{}); err == nil {
		t.Error("empty layout should be rejected")
	}
	a.Close()

	out := buf.String()
	for _, want := range []string{"rejected layout", "animator closed"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in logs: %s", want, out)
		}
	}
	if strings.Contains(out, "level=DEBUG") {
		t.Error("info logger should not emit debug records")
	}
}

func TestSetLoggerDuringRender(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := Render(Size{Width: 4, Height: 4}, StatePending.Palette(), PositionsAt(i), 1); err != nil {
				t.Errorf("Render() = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkLoggerDisabled(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("swirl: render started", "phase", 3)
	}
}
