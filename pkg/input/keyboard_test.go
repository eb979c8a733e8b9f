package input

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gwillem/vexdrive/pkg/drive"
)

func TestKeyboard_AxisKeys(t *testing.T) {
	tests := []struct {
		key  string
		axis drive.Axis
		want int32
	}{
		{"w", drive.LeftY, 127},
		{"s", drive.LeftY, -127},
		{"a", drive.LeftX, -127},
		{"d", drive.LeftX, 127},
		{"up", drive.RightY, 127},
		{"k", drive.RightY, -127},
		{"left", drive.RightX, -127},
		{"l", drive.RightX, 127},
	}

	for _, tt := range tests {
		kb := NewKeyboard(clock.NewMock())
		if !kb.HandleKey(tt.key) {
			t.Errorf("HandleKey(%q) not recognized", tt.key)
		}
		if got := kb.Analog(tt.axis); got != tt.want {
			t.Errorf("after %q: Analog(%s) = %d, want %d", tt.key, tt.axis, got, tt.want)
		}
	}
}

func TestKeyboard_HoldExpires(t *testing.T) {
	mock := clock.NewMock()
	kb := NewKeyboard(mock)
	kb.Hold = 100 * time.Millisecond

	kb.HandleKey("w")
	kb.HandleKey("1")

	mock.Add(99 * time.Millisecond)
	if kb.Analog(drive.LeftY) != 127 || !kb.Digital(drive.ButtonA) {
		t.Fatal("deflection released before hold expired")
	}

	// Auto-repeat refreshes the hold.
	kb.HandleKey("w")
	mock.Add(50 * time.Millisecond)
	if kb.Analog(drive.LeftY) != 127 {
		t.Error("repeat did not extend the hold")
	}
	if kb.Digital(drive.ButtonA) {
		t.Error("button A still pressed after hold")
	}

	mock.Add(50 * time.Millisecond)
	if kb.Analog(drive.LeftY) != 0 {
		t.Error("axis still deflected after hold")
	}
}

func TestKeyboard_OppositeKeyReplaces(t *testing.T) {
	kb := NewKeyboard(clock.NewMock())
	kb.HandleKey("j")
	kb.HandleKey("l")
	if got := kb.Analog(drive.RightX); got != 127 {
		t.Errorf("Analog(right_x) = %d, want 127", got)
	}
}

func TestKeyboard_Magnitude(t *testing.T) {
	kb := NewKeyboard(clock.NewMock())
	kb.Magnitude = 40
	kb.HandleKey("s")
	if got := kb.Analog(drive.LeftY); got != -40 {
		t.Errorf("Analog(left_y) = %d, want -40", got)
	}
}

func TestKeyboard_SpaceCenters(t *testing.T) {
	kb := NewKeyboard(clock.NewMock())
	kb.HandleKey("w")
	kb.HandleKey("2")
	kb.HandleKey(" ")

	if kb.Analog(drive.LeftY) != 0 || kb.Digital(drive.ButtonB) {
		t.Error("space did not center the controller")
	}
}

func TestKeyboard_UnknownKey(t *testing.T) {
	kb := NewKeyboard(clock.NewMock())
	if kb.HandleKey("q") {
		t.Error("q should not be a controller key")
	}
	for _, a := range drive.AllAxes() {
		if kb.Analog(a) != 0 {
			t.Errorf("Analog(%s) = %d on fresh keyboard", a, kb.Analog(a))
		}
	}
}

func TestKeyboard_ButtonKeys(t *testing.T) {
	tests := []struct {
		key    string
		button drive.Button
	}{
		{"1", drive.ButtonA},
		{"2", drive.ButtonB},
		{"3", drive.ButtonX},
		{"4", drive.ButtonY},
	}

	for _, tt := range tests {
		kb := NewKeyboard(clock.NewMock())
		if !kb.HandleKey(tt.key) {
			t.Errorf("HandleKey(%q) not recognized", tt.key)
		}
		for _, b := range drive.AllButtons() {
			if got := kb.Digital(b); got != (b == tt.button) {
				t.Errorf("after %q: Digital(%s) = %v", tt.key, b, got)
			}
		}
	}
}

