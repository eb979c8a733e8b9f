package drive

// Binding switches to Mapping while Button is pressed.
type Binding struct {
	Button  Button  `json:"button"`
	Mapping Mapping `json:"mapping"`
}

// Bindings are evaluated in order.
type Bindings []Binding

// DefaultBindings selects tank on A, horizontal tank on X and arcade on B.
// B comes last so it wins over the others.
func DefaultBindings() Bindings {
	return Bindings{
		{Button: ButtonA, Mapping: Tank},
		{Button: ButtonX, Mapping: TankHorizontal},
		{Button: ButtonB, Mapping: Arcade},
	}
}

// Select returns the mapping in effect after polling the bound buttons.
// Every pressed binding assigns its mapping in order, so when several are
// pressed in the same tick the last one wins.
func (b Bindings) Select(active Mapping, pressed func(Button) bool) Mapping {
	for _, binding := range b {
		if pressed(binding.Button) {
			active = binding.Mapping
		}
	}
	return active
}
