package drive

import (
	"encoding/json"
	"testing"
)

func TestArcade_SumsWithoutClamping(t *testing.T) {
	layout := DefaultLayout()
	for a := AxisMin; a <= AxisMax; a++ {
		for b := AxisMin; b <= AxisMax; b++ {
			s := ControllerState{LeftY: a, RightX: b}
			got := Arcade.Apply(s, layout)
			if got.Left != a+b || got.Right != a-b {
				t.Fatalf("Arcade(%d, %d) = %+v, want {%d %d}", a, b, got, a+b, a-b)
			}
		}
	}
}

func TestTank_PassesAxesThrough(t *testing.T) {
	layout := DefaultLayout()
	for v := AxisMin; v <= AxisMax; v++ {
		s := ControllerState{LeftY: v, RightY: -v, RightX: v / 2}

		got := Tank.Apply(s, layout)
		if got.Left != v || got.Right != -v {
			t.Fatalf("Tank(%d) = %+v, want {%d %d}", v, got, v, -v)
		}

		got = TankHorizontal.Apply(s, layout)
		if got.Left != v || got.Right != v/2 {
			t.Fatalf("TankHorizontal(%d) = %+v, want {%d %d}", v, got, v, v/2)
		}
	}
}

func TestMapping_Apply(t *testing.T) {
	tests := []struct {
		name    string
		mapping Mapping
		state   ControllerState
		want    Command
	}{
		{"arcade forward and turn", Arcade, ControllerState{LeftY: 50, RightX: 30}, Command{80, 20}},
		{"arcade full deflection", Arcade, ControllerState{LeftY: 127, RightX: 127}, Command{254, 0}},
		{"arcade spin", Arcade, ControllerState{RightX: -100}, Command{-100, 100}},
		{"tank", Tank, ControllerState{LeftY: 50, RightY: -40}, Command{50, -40}},
		{"tank ignores turn", Tank, ControllerState{LeftY: 10, RightY: 20, RightX: 99}, Command{10, 20}},
		{"tank horizontal", TankHorizontal, ControllerState{LeftY: 50, RightY: -40, RightX: 70}, Command{50, 70}},
		{"missing axes read as centered", Arcade, ControllerState{}, Command{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mapping.Apply(tt.state, DefaultLayout()); got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMapping_CustomLayout(t *testing.T) {
	layout := Layout{Forward: RightY, Turn: LeftX, Left: RightY, Right: LeftY, RightHorizontal: LeftX}
	s := ControllerState{RightY: 40, LeftX: -10, LeftY: 7}

	if got := Arcade.Apply(s, layout); got != (Command{30, 50}) {
		t.Errorf("Arcade = %+v, want {30 50}", got)
	}
	if got := Tank.Apply(s, layout); got != (Command{40, 7}) {
		t.Errorf("Tank = %+v, want {40 7}", got)
	}
}

func TestParseMapping(t *testing.T) {
	for _, m := range AllMappings() {
		got, err := ParseMapping(m.String())
		if err != nil {
			t.Fatalf("ParseMapping(%q) error: %v", m, err)
		}
		if got != m {
			t.Errorf("ParseMapping(%q) = %v", m, got)
		}
	}

	if _, err := ParseMapping("mecanum"); err == nil {
		t.Error("ParseMapping(mecanum) should fail")
	}
}

func TestMapping_JSON(t *testing.T) {
	var b Binding
	if err := json.Unmarshal([]byte(`{"button":"a","mapping":"tank_horizontal"}`), &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if b.Button != ButtonA || b.Mapping != TankHorizontal {
		t.Errorf("got %+v", b)
	}

	if err := json.Unmarshal([]byte(`{"mapping":"hover"}`), &b); err == nil {
		t.Error("unknown mapping should not unmarshal")
	}

	if _, err := Mapping(42).MarshalText(); err == nil {
		t.Error("MarshalText of unknown mapping should fail")
	}
}

type fakeSource struct {
	axes    map[Axis]int32
	buttons map[Button]bool
}

func (f fakeSource) Analog(a Axis) int32    { return f.axes[a] }
func (f fakeSource) Digital(b Button) bool { return f.buttons[b] }

func TestSample(t *testing.T) {
	src := fakeSource{axes: map[Axis]int32{LeftY: 5, RightX: -9}}
	s := Sample(src)

	if len(s) != len(AllAxes()) {
		t.Fatalf("Sample returned %d axes, want %d", len(s), len(AllAxes()))
	}
	if s[LeftY] != 5 || s[RightX] != -9 || s[LeftX] != 0 {
		t.Errorf("Sample = %v", s)
	}
}

func TestParseAxisAndButton(t *testing.T) {
	if a, err := ParseAxis("right_y"); err != nil || a != RightY {
		t.Errorf("ParseAxis(right_y) = %v, %v", a, err)
	}
	if _, err := ParseAxis("z"); err == nil {
		t.Error("ParseAxis(z) should fail")
	}
	if b, err := ParseButton("r2"); err != nil || b != ButtonR2 {
		t.Errorf("ParseButton(r2) = %v, %v", b, err)
	}
	if _, err := ParseButton("start"); err == nil {
		t.Error("ParseButton(start) should fail")
	}
}
