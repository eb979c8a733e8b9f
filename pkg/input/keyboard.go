// Package input provides controller sources for the teleop loop.
package input

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gwillem/vexdrive/pkg/drive"
)

// Defaults for Keyboard.
const (
	DefaultHold      = 600 * time.Millisecond
	DefaultMagnitude = drive.AxisMax
)

type deflection struct {
	value int32
	at    time.Time
}

// Keyboard is a virtual gamepad driven by terminal key presses. Terminals do
// not report key releases, so every deflection and button press lasts for
// Hold after the most recent matching key event; key auto-repeat keeps it
// alive while a key is held down.
type Keyboard struct {
	Hold      time.Duration
	Magnitude int32

	clock clock.Clock

	mu      sync.Mutex
	axes    map[drive.Axis]deflection
	buttons map[drive.Button]time.Time
}

type axisKey struct {
	axis drive.Axis
	sign int32
}

var axisKeys = map[string]axisKey{
	"w":     {drive.LeftY, 1},
	"s":     {drive.LeftY, -1},
	"a":     {drive.LeftX, -1},
	"d":     {drive.LeftX, 1},
	"i":     {drive.RightY, 1},
	"up":    {drive.RightY, 1},
	"k":     {drive.RightY, -1},
	"down":  {drive.RightY, -1},
	"j":     {drive.RightX, -1},
	"left":  {drive.RightX, -1},
	"l":     {drive.RightX, 1},
	"right": {drive.RightX, 1},
}

var buttonKeys = map[string]drive.Button{
	"1": drive.ButtonA,
	"2": drive.ButtonB,
	"3": drive.ButtonX,
	"4": drive.ButtonY,
}

// NewKeyboard creates a keyboard source using clk for hold timing.
func NewKeyboard(clk clock.Clock) *Keyboard {
	if clk == nil {
		clk = clock.New()
	}
	return &Keyboard{
		Hold:      DefaultHold,
		Magnitude: DefaultMagnitude,
		clock:     clk,
		axes:      make(map[drive.Axis]deflection),
		buttons:   make(map[drive.Button]time.Time),
	}
}

// HandleKey applies a bubbletea key string. It reports whether the key is
// part of the controller layout.
func (k *Keyboard) HandleKey(key string) bool {
	now := k.clock.Now()

	k.mu.Lock()
	defer k.mu.Unlock()

	if key == " " {
		k.axes = make(map[drive.Axis]deflection)
		k.buttons = make(map[drive.Button]time.Time)
		return true
	}
	if ak, ok := axisKeys[key]; ok {
		k.axes[ak.axis] = deflection{value: ak.sign * k.Magnitude, at: now}
		return true
	}
	if b, ok := buttonKeys[key]; ok {
		k.buttons[b] = now
		return true
	}
	return false
}

// Analog returns the current deflection of axis.
func (k *Keyboard) Analog(axis drive.Axis) int32 {
	now := k.clock.Now()

	k.mu.Lock()
	defer k.mu.Unlock()

	d, ok := k.axes[axis]
	if !ok || now.Sub(d.at) >= k.Hold {
		return 0
	}
	return d.value
}

// Digital reports whether button is held.
func (k *Keyboard) Digital(button drive.Button) bool {
	now := k.clock.Now()

	k.mu.Lock()
	defer k.mu.Unlock()

	at, ok := k.buttons[button]
	return ok && now.Sub(at) < k.Hold
}

// KeyHelp describes the key layout, one entry per control.
func KeyHelp() []string {
	return []string{
		"w/s left stick Y",
		"a/d left stick X",
		"i/k or ↑/↓ right stick Y",
		"j/l or ←/→ right stick X",
		"1 A  2 B  3 X  4 Y",
		"space center",
	}
}
