package fit

import "testing"

func BenchmarkFit(b *testing.B) {
	job := singleJob()
	eng := NewEngine()

	b.ReportAllocs()
	for b.Loop() {
		_, _ = eng.Fit(job)
	}
}

func BenchmarkPreview(b *testing.B) {
	job := singleJob()
	eng := NewEngine()

	b.ReportAllocs()
	for b.Loop() {
		_, _ = eng.Preview(job)
	}
}
