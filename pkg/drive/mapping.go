package drive

import "fmt"

// Command is a pair of signed velocity commands, one per motor group.
type Command struct {
	Left  int32
	Right int32
}

// Mapping selects how controller readings become a Command.
type Mapping uint8

// Supported mappings.
const (
	// Arcade drives with one stick for throttle and another for turning.
	Arcade Mapping = iota
	// Tank drives each side from its own vertical axis.
	Tank
	// TankHorizontal is Tank with the right side on the horizontal axis.
	TankHorizontal
)

var mappingNames = map[Mapping]string{
	Arcade:         "arcade",
	Tank:           "tank",
	TankHorizontal: "tank_horizontal",
}

// AllMappings returns all mappings in declaration order.
func AllMappings() []Mapping {
	return []Mapping{Arcade, Tank, TankHorizontal}
}

func (m Mapping) String() string {
	if name, ok := mappingNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mapping(%d)", uint8(m))
}

// ParseMapping returns the mapping with the given name.
func ParseMapping(name string) (Mapping, error) {
	for m, n := range mappingNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mapping %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mapping) MarshalText() ([]byte, error) {
	name, ok := mappingNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown mapping %d", uint8(m))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mapping) UnmarshalText(text []byte) error {
	parsed, err := ParseMapping(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Layout assigns controller axes to the roles used by the mappings.
type Layout struct {
	Forward         Axis `json:"forward"`
	Turn            Axis `json:"turn"`
	Left            Axis `json:"left"`
	Right           Axis `json:"right"`
	RightHorizontal Axis `json:"right_horizontal"`
}

// DefaultLayout is the usual two-stick layout.
func DefaultLayout() Layout {
	return Layout{
		Forward:         LeftY,
		Turn:            RightX,
		Left:            LeftY,
		Right:           RightY,
		RightHorizontal: RightX,
	}
}

// Apply evaluates the mapping against a controller snapshot.
//
// Arcade sums are not clamped: with both sticks at full deflection a side
// reaches twice the axis range. Saturation is left to the actuator.
func (m Mapping) Apply(s ControllerState, l Layout) Command {
	switch m {
	case Tank:
		return Command{Left: s[l.Left], Right: s[l.Right]}
	case TankHorizontal:
		return Command{Left: s[l.Left], Right: s[l.RightHorizontal]}
	default:
		forward, turn := s[l.Forward], s[l.Turn]
		return Command{Left: forward + turn, Right: forward - turn}
	}
}
