package param

import "fmt"

// SlotKind tags the meaning of one element of the parameter vector.
type SlotKind int

const (
	SourceTau SlotKind = iota
	SourceIntensity
	SampleTau
	SampleIntensity
	IRFSigma // stored as FWHM; the model converts to the Gaussian width
	IRFMu
	IRFIntensity
	Background
)

func (k SlotKind) String() string {
	switch k {
	case SourceTau:
		return "source-tau"
	case SourceIntensity:
		return "source-intensity"
	case SampleTau:
		return "sample-tau"
	case SampleIntensity:
		return "sample-intensity"
	case IRFSigma:
		return "irf-sigma"
	case IRFMu:
		return "irf-mu"
	case IRFIntensity:
		return "irf-intensity"
	case Background:
		return "background"
	default:
		return fmt.Sprintf("SlotKind(%d)", int(k))
	}
}

// TimeScaled reports whether values of this kind are times that get
// divided by the channel resolution.
func (k SlotKind) TimeScaled() bool {
	switch k {
	case SourceTau, SampleTau, IRFSigma, IRFMu:
		return true
	default:
		return false
	}
}

// IsTau reports whether the slot holds a decay lifetime.
func (k SlotKind) IsTau() bool {
	return k == SourceTau || k == SampleTau
}

// IsDecayIntensity reports whether the slot holds a decay intensity.
func (k SlotKind) IsDecayIntensity() bool {
	return k == SourceIntensity || k == SampleIntensity
}

// Slot describes one element of the parameter vector.
type Slot struct {
	Kind      SlotKind
	Group     GroupKind
	Component int // component number inside the group
	Index     int // parameter index inside Group.Params
}

// Layout is the ordered slot list of one fit. It is built once and shared by
// the assembler, the model evaluator and the result extractor.
type Layout struct {
	Slots []Slot

	decays     int
	irfs       int
	background int
}

// Len returns the parameter vector length.
func (l Layout) Len() int { return len(l.Slots) }

// DecayCount returns the number of source plus sample exponentials.
func (l Layout) DecayCount() int { return l.decays }

// IRFCount returns the number of Gaussian IRF components.
func (l Layout) IRFCount() int { return l.irfs }

// BackgroundIndex returns the vector index of the background.
func (l Layout) BackgroundIndex() int { return l.background }

// Indices returns the vector indices of all slots of the given kind, in order.
func (l Layout) Indices(kind SlotKind) []int {
	var out []int
	for i, s := range l.Slots {
		if s.Kind == kind {
			out = append(out, i)
		}
	}

	return out
}

// Param returns the parameter in set backing vector index i.
func (l Layout) Param(set *Set, i int) *Parameter {
	s := l.Slots[i]
	return &set.Group(s.Group).Params[s.Index]
}

var slotKinds = map[GroupKind][]SlotKind{
	GroupSource:     {SourceTau, SourceIntensity},
	GroupSample:     {SampleTau, SampleIntensity},
	GroupIRF:        {IRFSigma, IRFMu, IRFIntensity},
	GroupBackground: {Background},
}

// NewLayout validates the group shapes of set and builds its slot list.
func NewLayout(set *Set) (Layout, error) {
	if set == nil {
		return Layout{}, ErrNilSet
	}

	if len(set.Background.Params) != 1 {
		return Layout{}, ErrNoBackground
	}

	var l Layout

	for _, g := range set.Groups() {
		kinds := slotKinds[g.Kind]
		if len(g.Params)%len(kinds) != 0 {
			return Layout{}, fmt.Errorf("%w: %s has %d parameters", ErrGroupShape, g.Kind, len(g.Params))
		}

		for i := range g.Params {
			l.Slots = append(l.Slots, Slot{
				Kind:      kinds[i%len(kinds)],
				Group:     g.Kind,
				Component: i / len(kinds),
				Index:     i,
			})
		}
	}

	l.decays = set.Source.Components() + set.Sample.Components()
	l.irfs = set.IRF.Components()
	l.background = len(l.Slots) - 1

	if l.decays == 0 {
		return Layout{}, ErrNoDecay
	}

	if l.irfs == 0 {
		return Layout{}, ErrNoIRF
	}

	return l, nil
}
