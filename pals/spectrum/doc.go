// Package spectrum holds the raw channel→counts histogram of a positron
// lifetime measurement and the region-of-interest (ROI) view a fit works on.
//
// A Spectrum is treated as immutable input. Extract copies the ROI into
// float slices, relative to the ROI start channel, and records the integral
// counts and the peak position the model evaluator and the result extractor
// need.
//
// # Usage
//
//	s := spectrum.FromCounts(counts)
//	roi, err := s.Extract(0, 999)
//	fmt.Println(roi.Integral, roi.PeakChannel)
package spectrum
