package param

// Constraint restricts one element of the parameter vector.
type Constraint struct {
	Fixed    bool
	HasLower bool
	Lower    float64
	HasUpper bool
	Upper    float64
}

// Assembly is the solver-facing form of a parameter set.
type Assembly struct {
	Layout      Layout
	Values      []float64
	Constraints []Constraint
}

// Free returns the number of parameters the solver may vary.
func (a Assembly) Free() int {
	n := 0
	for _, c := range a.Constraints {
		if !c.Fixed {
			n++
		}
	}

	return n
}

// Assemble flattens set into start values and constraints in channel units.
// resolution is the channel width in time units (e.g. ps per channel).
// The background never carries bounds; only its fixed flag is used.
func Assemble(set *Set, resolution float64) (Assembly, error) {
	if resolution <= 0 {
		return Assembly{}, ErrInvalidResolution
	}

	layout, err := NewLayout(set)
	if err != nil {
		return Assembly{}, err
	}

	asm := Assembly{
		Layout:      layout,
		Values:      make([]float64, layout.Len()),
		Constraints: make([]Constraint, layout.Len()),
	}

	for i, slot := range layout.Slots {
		p := layout.Param(set, i)

		scale := 1.0
		if slot.Kind.TimeScaled() {
			scale = 1 / resolution
		}

		asm.Values[i] = p.Start * scale

		c := Constraint{Fixed: p.Fixed}
		if slot.Kind != Background {
			c.HasLower, c.Lower = p.HasLower, p.Lower*scale
			c.HasUpper, c.Upper = p.HasUpper, p.Upper*scale
		}

		asm.Constraints[i] = c
	}

	return asm, nil
}
