package param

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoIRFSet() *Set {
	set := NewSet()
	set.Source.AddDecay(Value(400).AsFixed().Named("tau1", "src"), Value(0.1).AsFixed())
	set.Sample.AddDecay(Value(200).WithBounds(50, 1000), Value(0.6).WithBounds(0, 1))
	set.Sample.AddDecay(Value(450), Value(0.3))
	set.IRF.AddGaussian(Value(230), Value(10).WithLower(-50), Value(0.8))
	set.IRF.AddGaussian(Value(400), Value(0), Value(0.2))
	set.Background.Params[0] = Value(5).WithBounds(0, 10)

	return set
}

func TestNewLayoutOrder(t *testing.T) {
	l, err := NewLayout(twoIRFSet())
	require.NoError(t, err)

	want := []SlotKind{
		SourceTau, SourceIntensity,
		SampleTau, SampleIntensity, SampleTau, SampleIntensity,
		IRFSigma, IRFMu, IRFIntensity, IRFSigma, IRFMu, IRFIntensity,
		Background,
	}

	got := make([]SlotKind, l.Len())
	for i, s := range l.Slots {
		got[i] = s.Kind
	}

	require.Equal(t, want, got)
	require.Equal(t, 3, l.DecayCount())
	require.Equal(t, 2, l.IRFCount())
	require.Equal(t, 12, l.BackgroundIndex())
	require.Equal(t, []int{2, 4}, l.Indices(SampleTau))
	require.Equal(t, []int{8, 11}, l.Indices(IRFIntensity))

	// Second sample component, intensity slot.
	require.Equal(t, Slot{Kind: SampleIntensity, Group: GroupSample, Component: 1, Index: 3}, l.Slots[5])
}

func TestNewLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Set
		want  error
	}{
		{"nil", func() *Set { return nil }, ErrNilSet},
		{"odd sample", func() *Set {
			s := twoIRFSet()
			s.Sample.Params = s.Sample.Params[:3]
			return s
		}, ErrGroupShape},
		{"short irf", func() *Set {
			s := twoIRFSet()
			s.IRF.Params = s.IRF.Params[:4]
			return s
		}, ErrGroupShape},
		{"no background", func() *Set {
			s := twoIRFSet()
			s.Background.Params = nil
			return s
		}, ErrNoBackground},
		{"no decay", func() *Set {
			s := twoIRFSet()
			s.Source.Params, s.Sample.Params = nil, nil
			return s
		}, ErrNoDecay},
		{"no irf", func() *Set {
			s := twoIRFSet()
			s.IRF.Params = nil
			return s
		}, ErrNoIRF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.build())
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAssembleScaling(t *testing.T) {
	set := twoIRFSet()

	asm, err := Assemble(set, 25)
	require.NoError(t, err)

	require.InDelta(t, 16.0, asm.Values[0], 1e-12) // 400 ps
	require.InDelta(t, 0.1, asm.Values[1], 1e-12)
	require.InDelta(t, 8.0, asm.Values[2], 1e-12) // 200 ps
	require.InDelta(t, 9.2, asm.Values[6], 1e-12) // FWHM 230 ps
	require.InDelta(t, 0.4, asm.Values[7], 1e-12) // mu 10 ps
	require.InDelta(t, 0.8, asm.Values[8], 1e-12)
	require.InDelta(t, 5.0, asm.Values[12], 1e-12)

	// Bounds follow the unit conversion of their value.
	c := asm.Constraints[2]
	require.True(t, c.HasLower && c.HasUpper)
	require.InDelta(t, 2.0, c.Lower, 1e-12)
	require.InDelta(t, 40.0, c.Upper, 1e-12)

	ci := asm.Constraints[3]
	require.InDelta(t, 0.0, ci.Lower, 1e-12)
	require.InDelta(t, 1.0, ci.Upper, 1e-12)

	cm := asm.Constraints[7]
	require.True(t, cm.HasLower)
	require.False(t, cm.HasUpper)
	require.InDelta(t, -2.0, cm.Lower, 1e-12)

	require.True(t, asm.Constraints[0].Fixed)
	require.Equal(t, 11, asm.Free())
}

func TestAssembleBackgroundNeverBounded(t *testing.T) {
	set := twoIRFSet()

	asm, err := Assemble(set, 25)
	require.NoError(t, err)

	c := asm.Constraints[asm.Layout.BackgroundIndex()]
	require.Equal(t, Constraint{}, c)

	set.Background.Params[0] = set.Background.Params[0].AsFixed()
	asm, err = Assemble(set, 25)
	require.NoError(t, err)
	require.Equal(t, Constraint{Fixed: true}, asm.Constraints[asm.Layout.BackgroundIndex()])
}

func TestAssembleDoesNotTouchSet(t *testing.T) {
	set := twoIRFSet()
	before := *set
	before.Sample.Params = append([]Parameter(nil), set.Sample.Params...)

	_, err := Assemble(set, 25)
	require.NoError(t, err)
	require.Equal(t, before.Sample.Params, set.Sample.Params)
}

func TestAssembleInvalidResolution(t *testing.T) {
	_, err := Assemble(twoIRFSet(), 0)
	require.ErrorIs(t, err, ErrInvalidResolution)
}

func TestConflicts(t *testing.T) {
	set := twoIRFSet()
	require.Empty(t, Conflicts(set))
	require.NoError(t, Validate(set))

	set.Sample.Params[0] = set.Sample.Params[0].AsFixed().Named("tau2", "t2")
	set.IRF.Params[1] = set.IRF.Params[1].AsFixed().Named("mu", "")

	require.Equal(t, []string{"sample:t2", "irf:mu"}, Conflicts(set))
	require.ErrorIs(t, Validate(set), ErrConflict)

	// A bounded, fixed background is fine since its bounds are ignored.
	set = twoIRFSet()
	set.Background.Params[0] = set.Background.Params[0].AsFixed()
	require.NoError(t, Validate(set))
}
