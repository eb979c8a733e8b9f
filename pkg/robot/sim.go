package robot

import (
	"context"
	"sync"
)

// SimGroup is a motor group with no hardware behind it. It remembers the
// last command and how many it received.
type SimGroup struct {
	mu    sync.Mutex
	ports []Port
	last  int32
	count int
}

// NewSimGroup creates a simulated group.
func NewSimGroup(ports []Port) *SimGroup {
	return &SimGroup{ports: ports}
}

// Move records command.
func (g *SimGroup) Move(ctx context.Context, command int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = command
	g.count++
	return nil
}

// Last returns the most recent command.
func (g *SimGroup) Last() int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Count returns the number of commands received.
func (g *SimGroup) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// MotorCommands returns the command each motor would see.
func (g *SimGroup) MotorCommands() map[int]int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[int]int32, len(g.ports))
	for _, p := range g.ports {
		out[p.Number()] = p.Apply(g.last)
	}
	return out
}

// Speeds reports every motor turning at the last command.
func (g *SimGroup) Speeds(ctx context.Context) (map[int]int32, error) {
	speeds := g.MotorCommands()
	for _, p := range g.ports {
		speeds[p.Number()] = p.Apply(speeds[p.Number()])
	}
	return speeds, nil
}
