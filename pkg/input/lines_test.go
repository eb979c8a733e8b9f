package input

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap/zaptest"

	"github.com/gwillem/vexdrive/pkg/drive"
)

func TestLines_Apply(t *testing.T) {
	l := NewLines(clock.NewMock(), zaptest.NewLogger(t).Sugar())

	for _, line := range []string{"axis left_y 50", "axis right_x -30", "press a", "", "  "} {
		if err := l.Apply(line); err != nil {
			t.Fatalf("Apply(%q): %v", line, err)
		}
	}
	if l.Analog(drive.LeftY) != 50 || l.Analog(drive.RightX) != -30 {
		t.Errorf("axes = %d, %d", l.Analog(drive.LeftY), l.Analog(drive.RightX))
	}
	if !l.Digital(drive.ButtonA) {
		t.Error("A not pressed")
	}

	if err := l.Apply("release a"); err != nil {
		t.Fatal(err)
	}
	if l.Digital(drive.ButtonA) {
		t.Error("A still pressed after release")
	}

	if err := l.Apply("center"); err != nil {
		t.Fatal(err)
	}
	if l.Analog(drive.LeftY) != 0 || l.Analog(drive.RightX) != 0 {
		t.Error("center left axes deflected")
	}
}

func TestLines_ApplyRejects(t *testing.T) {
	tests := []struct {
		line   string
		errMsg string
	}{
		{"axis left_y", "want 'axis"},
		{"axis throttle 5", "unknown axis"},
		{"axis left_y fast", "axis left_y"},
		{"axis left_y 128", "outside"},
		{"axis left_y -128", "outside"},
		{"press", "want 'press"},
		{"press start", "unknown button"},
		{"jump", "unsupported"},
		{"wait 10", "unsupported"},
	}

	l := NewLines(clock.NewMock(), nil)
	for _, tt := range tests {
		err := l.Apply(tt.line)
		if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
			t.Errorf("Apply(%q) = %v, want error containing %q", tt.line, err, tt.errMsg)
		}
	}
	if l.Analog(drive.LeftY) != 0 {
		t.Error("rejected line changed state")
	}
}

func waitFor(t *testing.T, what string, cond func() bool, tick func()) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		if tick != nil {
			tick()
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLines_RunCentersOnTimeout(t *testing.T) {
	mock := clock.NewMock()
	l := NewLines(mock, zaptest.NewLogger(t).Sugar())

	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, r) }()

	if _, err := io.WriteString(w, "axis left_y 90\nbogus\n"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "axis update", func() bool { return l.Analog(drive.LeftY) == 90 }, nil)

	waitFor(t, "timeout centering", func() bool { return l.Analog(drive.LeftY) == 0 },
		func() { mock.Add(l.Timeout) })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLines_RunStopsAtEOF(t *testing.T) {
	l := NewLines(clock.NewMock(), nil)

	err := l.Run(context.Background(), strings.NewReader("press b\naxis right_y 10\n"))
	if err != nil {
		t.Fatalf("Run() = %v, want nil at EOF", err)
	}
	if !l.Digital(drive.ButtonB) {
		t.Error("press b not applied")
	}
	if l.Analog(drive.RightY) != 0 {
		t.Error("axes not centered at EOF")
	}
}

func TestParseWait(t *testing.T) {
	tests := []struct {
		line   string
		want   time.Duration
		isWait bool
		hasErr bool
	}{
		{"wait 250", 250 * time.Millisecond, true, false},
		{"wait 0", 0, true, false},
		{"wait", 0, true, true},
		{"wait -5", 0, true, true},
		{"axis left_y 5", 0, false, false},
	}
	for _, tt := range tests {
		d, isWait, err := parseWait(tt.line)
		if d != tt.want || isWait != tt.isWait || (err != nil) != tt.hasErr {
			t.Errorf("parseWait(%q) = %v, %v, %v", tt.line, d, isWait, err)
		}
	}
}

func TestLines_RunReplaysWaits(t *testing.T) {
	mock := clock.NewMock()
	l := NewLines(mock, zaptest.NewLogger(t).Sugar())
	l.Timeout = time.Hour

	start := mock.Now()
	done := make(chan error, 1)
	go func() {
		done <- l.Run(context.Background(), strings.NewReader("axis left_y 80\nwait 1000\naxis left_y 0\n"))
	}()

	waitFor(t, "first line", func() bool { return l.Analog(drive.LeftY) == 80 }, nil)
	waitFor(t, "line after wait", func() bool { return l.Analog(drive.LeftY) == 0 },
		func() { mock.Add(100 * time.Millisecond) })

	if held := mock.Now().Sub(start); held < time.Second {
		t.Errorf("deflection held for %v, want at least 1s", held)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil at EOF", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return at EOF")
	}
}

