package spectrum

import (
	"encoding/binary"
	"errors"

	"github.com/cespare/xxhash/v2"
)

// Errors returned by spectrum functions.
var (
	ErrEmpty      = errors.New("spectrum: no data")
	ErrInvalidROI = errors.New("spectrum: invalid region of interest")
)

// Point is one histogram bin.
type Point struct {
	Channel int
	Counts  int
}

// Sample is a derived per-channel value such as a model count or a residual.
type Sample struct {
	Channel int
	Value   float64
}

// Spectrum is an ordered list of histogram bins.
type Spectrum []Point

// FromCounts builds a spectrum with channels 0..len(counts)-1.
func FromCounts(counts []int) Spectrum {
	s := make(Spectrum, len(counts))
	for i, c := range counts {
		s[i] = Point{Channel: i, Counts: c}
	}

	return s
}

// Counts returns the counts column.
func (s Spectrum) Counts() []int {
	out := make([]int, len(s))
	for i, p := range s {
		out[i] = p.Counts
	}

	return out
}

// Bounds returns the lowest and highest channel. ok is false for an empty spectrum.
func (s Spectrum) Bounds() (lo, hi int, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}

	lo, hi = s[0].Channel, s[0].Channel
	for _, p := range s[1:] {
		lo = min(lo, p.Channel)
		hi = max(hi, p.Channel)
	}

	return lo, hi, true
}

// Digest returns a 64-bit fingerprint of the channel/count pairs. Two
// spectra with the same bins in the same order have the same digest.
func (s Spectrum) Digest() uint64 {
	h := xxhash.New()

	var buf [16]byte
	for _, p := range s {
		binary.LittleEndian.PutUint64(buf[:8], uint64(int64(p.Channel)))
		binary.LittleEndian.PutUint64(buf[8:], uint64(int64(p.Counts)))
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}

// ROI is the fit region of a spectrum.
type ROI struct {
	Start int // first channel (inclusive)
	Stop  int // last channel (inclusive)

	Channels []int     // absolute channel per point
	X        []float64 // channel relative to Start
	Y        []float64 // observed counts

	Integral    int // sum of counts inside the ROI
	PeakIndex   int // index into X/Y of the first maximum
	PeakChannel int
	PeakCounts  float64
}

// Len returns the number of points in the ROI.
func (r ROI) Len() int {
	return len(r.X)
}

// Width returns Stop-Start, the channel span used to scale the background.
func (r ROI) Width() float64 {
	return float64(r.Stop - r.Start)
}

// Extract copies the points with start <= channel <= stop. At least two
// points are required because the model is evaluated on adjacent pairs.
func (s Spectrum) Extract(start, stop int) (ROI, error) {
	if len(s) == 0 {
		return ROI{}, ErrEmpty
	}

	if stop <= start {
		return ROI{}, ErrInvalidROI
	}

	roi := ROI{
		Start:      start,
		Stop:       stop,
		PeakCounts: -1,
	}

	for _, p := range s {
		if p.Channel < start || p.Channel > stop {
			continue
		}

		y := float64(p.Counts)
		if y > roi.PeakCounts {
			roi.PeakCounts = y
			roi.PeakChannel = p.Channel
			roi.PeakIndex = len(roi.X)
		}

		roi.Channels = append(roi.Channels, p.Channel)
		roi.X = append(roi.X, float64(p.Channel-start))
		roi.Y = append(roi.Y, y)
		roi.Integral += p.Counts
	}

	if len(roi.X) < 2 {
		return ROI{}, ErrInvalidROI
	}

	return roi, nil
}
