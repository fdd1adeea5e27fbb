package param

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by layout construction and assembly.
var (
	ErrNilSet            = errors.New("param: parameter set is nil")
	ErrGroupShape        = errors.New("param: group length does not match its slot layout")
	ErrNoBackground      = errors.New("param: background group must hold exactly one parameter")
	ErrNoDecay           = errors.New("param: at least one decay component is required")
	ErrNoIRF             = errors.New("param: at least one IRF component is required")
	ErrInvalidResolution = errors.New("param: channel resolution must be positive")
	ErrConflict          = errors.New("param: parameter is both fixed and bounded")
)

// Parameter is one fit parameter with its start value, bounds and result.
type Parameter struct {
	Name  string
	Alias string

	Start float64

	Lower    float64
	Upper    float64
	HasLower bool
	HasUpper bool
	Fixed    bool

	// Written by the fit.
	Fit      float64
	FitError float64
}

// Value returns a free, unbounded parameter with the given start value.
func Value(start float64) Parameter {
	return Parameter{Start: start}
}

// Named returns a copy with name and alias set.
func (p Parameter) Named(name, alias string) Parameter {
	p.Name = name
	p.Alias = alias
	return p
}

// AsFixed returns a copy that the solver must not vary.
func (p Parameter) AsFixed() Parameter {
	p.Fixed = true
	return p
}

// WithBounds returns a copy limited to [lo, hi].
func (p Parameter) WithBounds(lo, hi float64) Parameter {
	p.Lower, p.HasLower = lo, true
	p.Upper, p.HasUpper = hi, true
	return p
}

// WithLower returns a copy with only a lower bound.
func (p Parameter) WithLower(lo float64) Parameter {
	p.Lower, p.HasLower = lo, true
	return p
}

// WithUpper returns a copy with only an upper bound.
func (p Parameter) WithUpper(hi float64) Parameter {
	p.Upper, p.HasUpper = hi, true
	return p
}

// Label returns the alias, or the name when no alias is set.
func (p Parameter) Label() string {
	if p.Alias != "" {
		return p.Alias
	}

	return p.Name
}

// GroupKind identifies one of the four parameter groups.
type GroupKind int

const (
	GroupSource GroupKind = iota
	GroupSample
	GroupIRF
	GroupBackground
)

func (k GroupKind) String() string {
	switch k {
	case GroupSource:
		return "source"
	case GroupSample:
		return "sample"
	case GroupIRF:
		return "irf"
	case GroupBackground:
		return "background"
	default:
		return fmt.Sprintf("GroupKind(%d)", int(k))
	}
}

// stride is the number of parameters per component.
func (k GroupKind) stride() int {
	switch k {
	case GroupIRF:
		return 3
	case GroupBackground:
		return 1
	default:
		return 2
	}
}

// Group is an ordered parameter collection with fixed slot semantics.
type Group struct {
	Kind   GroupKind
	Params []Parameter
}

// Components returns the number of complete components in the group.
func (g *Group) Components() int {
	return len(g.Params) / g.Kind.stride()
}

// AddDecay appends a (tau, I) pair.
func (g *Group) AddDecay(tau, intensity Parameter) {
	g.Params = append(g.Params, tau, intensity)
}

// AddGaussian appends an IRF (FWHM, mu, I) triple.
func (g *Group) AddGaussian(fwhm, mu, intensity Parameter) {
	g.Params = append(g.Params, fwhm, mu, intensity)
}

// Set is the complete parameter description of one fit.
type Set struct {
	Source     Group
	Sample     Group
	IRF        Group
	Background Group
}

// NewSet returns an empty set with a zero, fixed background.
func NewSet() *Set {
	return &Set{
		Source:     Group{Kind: GroupSource},
		Sample:     Group{Kind: GroupSample},
		IRF:        Group{Kind: GroupIRF},
		Background: Group{Kind: GroupBackground, Params: []Parameter{Value(0).AsFixed().Named("background", "B")}},
	}
}

// Group returns the group of the given kind.
func (s *Set) Group(kind GroupKind) *Group {
	switch kind {
	case GroupSource:
		return &s.Source
	case GroupSample:
		return &s.Sample
	case GroupIRF:
		return &s.IRF
	default:
		return &s.Background
	}
}

// Groups returns the four groups in vector order.
func (s *Set) Groups() []*Group {
	return []*Group{&s.Source, &s.Sample, &s.IRF, &s.Background}
}

// Conflicts returns the labels of parameters that are fixed and bounded at
// the same time. Such a parameter can either be fixed or have limits. The
// background is skipped because its bounds are never used.
func Conflicts(set *Set) []string {
	if set == nil {
		return nil
	}

	var out []string
	for _, g := range set.Groups() {
		if g.Kind == GroupBackground {
			continue
		}

		for _, p := range g.Params {
			if p.Fixed && (p.HasLower || p.HasUpper) {
				out = append(out, g.Kind.String()+":"+p.Label())
			}
		}
	}

	return out
}

// Validate checks the set for fixed/bounded conflicts.
func Validate(set *Set) error {
	if set == nil {
		return ErrNilSet
	}

	if c := Conflicts(set); len(c) > 0 {
		return fmt.Errorf("%w: %s", ErrConflict, strings.Join(c, ", "))
	}

	return nil
}
