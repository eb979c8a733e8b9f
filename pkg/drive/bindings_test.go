package drive

import "testing"

func pressed(buttons ...Button) func(Button) bool {
	set := make(map[Button]bool, len(buttons))
	for _, b := range buttons {
		set[b] = true
	}
	return func(b Button) bool { return set[b] }
}

func TestBindings_Select(t *testing.T) {
	bindings := DefaultBindings()

	tests := []struct {
		name    string
		active  Mapping
		pressed []Button
		want    Mapping
	}{
		{"nothing pressed keeps arcade", Arcade, nil, Arcade},
		{"nothing pressed keeps tank", Tank, nil, Tank},
		{"a selects tank", Arcade, []Button{ButtonA}, Tank},
		{"b selects arcade", Tank, []Button{ButtonB}, Arcade},
		{"a and b: b wins", Arcade, []Button{ButtonA, ButtonB}, Arcade},
		{"a and b from tank: b wins", Tank, []Button{ButtonA, ButtonB}, Arcade},
		{"x selects tank_horizontal", Arcade, []Button{ButtonX}, TankHorizontal},
		{"a and x: x wins", Arcade, []Button{ButtonA, ButtonX}, TankHorizontal},
		{"x and b: b wins", Tank, []Button{ButtonX, ButtonB}, Arcade},
		{"all three: b wins", Tank, []Button{ButtonA, ButtonX, ButtonB}, Arcade},
		{"unbound button ignored", Arcade, []Button{ButtonY}, Arcade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bindings.Select(tt.active, pressed(tt.pressed...)); got != tt.want {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBindings_SelectIsIdempotent(t *testing.T) {
	bindings := DefaultBindings()

	first := bindings.Select(Arcade, pressed(ButtonA))
	second := bindings.Select(first, pressed(ButtonA))
	if first != Tank || second != Tank {
		t.Errorf("pressing A twice: %v then %v, want tank both times", first, second)
	}
}

func TestBindings_LastBindingWins(t *testing.T) {
	bindings := Bindings{
		{Button: ButtonB, Mapping: Arcade},
		{Button: ButtonA, Mapping: TankHorizontal},
	}

	if got := bindings.Select(Tank, pressed(ButtonA, ButtonB)); got != TankHorizontal {
		t.Errorf("Select() = %v, want tank_horizontal", got)
	}
}
