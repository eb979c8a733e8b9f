package robot

import (
	"context"
	"fmt"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.uber.org/multierr"
)

// ServoBus is a Feetech STS bus with continuous servos on it.
type ServoBus struct {
	bus *feetech.Bus
}

// OpenServoBus opens the servo bus on port.
func OpenServoBus(port string, baudRate int) (*ServoBus, error) {
	return newServoBus(feetech.BusConfig{
		Port:     port,
		BaudRate: baudRate,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
}

// NewServoBus wraps an already open transport.
func NewServoBus(t feetech.Transport) (*ServoBus, error) {
	return newServoBus(feetech.BusConfig{
		Transport: t,
		Protocol:  feetech.ProtocolSTS,
		Timeout:   100 * time.Millisecond,
	})
}

func newServoBus(cfg feetech.BusConfig) (*ServoBus, error) {
	bus, err := feetech.NewBus(cfg)
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}
	return &ServoBus{bus: bus}, nil
}

// Close closes the bus connection.
func (b *ServoBus) Close() error {
	return b.bus.Close()
}

// Scan returns the IDs of servos answering in [first, last].
func (b *ServoBus) Scan(ctx context.Context, first, last int) ([]int, error) {
	found, err := b.bus.Scan(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("scan servos: %w", err)
	}
	ids := make([]int, 0, len(found))
	for _, s := range found {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// Group returns the servos on ports as one group. Port numbers are servo IDs.
func (b *ServoBus) Group(ports []Port, cal Calibration) *ServoGroup {
	ids := make([]int, len(ports))
	for i, p := range ports {
		ids[i] = p.Number()
	}
	return &ServoGroup{
		bus:         b.bus,
		group:       feetech.NewServoGroupByIDs(b.bus, ids...),
		ports:       ports,
		calibration: cal,
	}
}

// ServoGroup drives a set of wheel mode servos with one command.
type ServoGroup struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	ports       []Port
	calibration Calibration
}

// WheelMode switches every servo to velocity mode and enables torque.
// The operating mode can only be changed with torque off.
func (g *ServoGroup) WheelMode(ctx context.Context) error {
	if err := g.group.DisableAll(ctx); err != nil {
		return fmt.Errorf("disable torque: %w", err)
	}
	mode := make(map[int][]byte, len(g.ports))
	for _, p := range g.ports {
		mode[p.Number()] = []byte{feetech.ModeVelocity}
	}
	if err := g.bus.SyncWrite(ctx, feetech.RegOperatingMode.Address, 1, mode); err != nil {
		return fmt.Errorf("set wheel mode: %w", err)
	}
	if err := g.group.EnableAll(ctx); err != nil {
		return fmt.Errorf("enable torque: %w", err)
	}
	return nil
}

// Disable stops the wheels and releases torque.
func (g *ServoGroup) Disable(ctx context.Context) error {
	return multierr.Combine(g.Move(ctx, 0), g.group.DisableAll(ctx))
}

// Velocities maps command onto each servo's goal velocity.
func (g *ServoGroup) Velocities(command int32) map[int]int {
	velocities := make(map[int]int, len(g.ports))
	for _, p := range g.ports {
		cal := g.calibration.ByID(p.Number())
		velocities[p.Number()] = cal.Denormalize(p.Apply(command))
	}
	return velocities
}

// Move writes command to all servos with one sync write.
func (g *ServoGroup) Move(ctx context.Context, command int32) error {
	data := make(map[int][]byte, len(g.ports))
	for id, v := range g.Velocities(command) {
		data[id] = g.bus.Protocol().EncodeWord(encodeVelocity(v))
	}
	if err := g.bus.SyncWrite(ctx, feetech.RegGoalVelocity.Address, feetech.RegGoalVelocity.Size, data); err != nil {
		return fmt.Errorf("write velocities: %w", err)
	}
	return nil
}

// Speeds reads the present velocity of each servo, in command units and
// with reversal undone, so a correctly wired group reads the same sign on
// every servo.
func (g *ServoGroup) Speeds(ctx context.Context) (map[int]int32, error) {
	raw, err := g.bus.SyncRead(ctx, feetech.RegPresentVelocity.Address, feetech.RegPresentVelocity.Size, g.group.IDs())
	if err != nil {
		return nil, fmt.Errorf("read velocities: %w", err)
	}
	speeds := make(map[int]int32, len(g.ports))
	for _, p := range g.ports {
		data, ok := raw[p.Number()]
		if !ok {
			continue
		}
		v := decodeVelocity(g.bus.Protocol().DecodeWord(data))
		speeds[p.Number()] = p.Apply(g.calibration.ByID(p.Number()).Normalize(v))
	}
	return speeds, nil
}

const velocitySignBit = 1 << 15

// encodeVelocity renders v in the servo's sign-magnitude format.
func encodeVelocity(v int) uint16 {
	if v < 0 {
		return uint16(-v) | velocitySignBit
	}
	return uint16(v)
}

func decodeVelocity(w uint16) int {
	if w&velocitySignBit != 0 {
		return -int(w &^ velocitySignBit)
	}
	return int(w)
}
