package simulate

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// convolver performs FFT-based linear convolution using the overlap-add
// method. The kernel spectrum is computed once.
type convolver struct {
	kernelFFT []complex128
	kernelLen int
	blockSize int
	plan      *algofft.Plan[complex128]

	inputPadded  []complex128
	outputPadded []complex128
}

func newConvolver(kernel []float64, blockSize int) (*convolver, error) {
	if len(kernel) == 0 {
		return nil, ErrNoKernel
	}

	if blockSize <= 0 {
		blockSize = max(nextPowerOf2(len(kernel)), 256)
	}
	fftSize := nextPowerOf2(blockSize + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("simulate: failed to create FFT plan: %w", err)
	}

	c := &convolver{
		kernelFFT:    make([]complex128, fftSize),
		kernelLen:    len(kernel),
		blockSize:    blockSize,
		plan:         plan,
		inputPadded:  make([]complex128, fftSize),
		outputPadded: make([]complex128, fftSize),
	}

	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}
	if err := plan.Forward(c.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("simulate: failed to compute kernel FFT: %w", err)
	}

	return c, nil
}

// process returns the full linear convolution, len(input)+kernelLen-1 samples.
func (c *convolver) process(input []float64) ([]float64, error) {
	outputLen := len(input) + c.kernelLen - 1
	output := make([]float64, outputLen)

	for start := 0; start < len(input); start += c.blockSize {
		end := min(start+c.blockSize, len(input))

		for i := range c.inputPadded {
			c.inputPadded[i] = 0
		}
		for i, v := range input[start:end] {
			c.inputPadded[i] = complex(v, 0)
		}

		if err := c.plan.Forward(c.inputPadded, c.inputPadded); err != nil {
			return nil, fmt.Errorf("simulate: forward FFT failed: %w", err)
		}
		for i := range c.outputPadded {
			c.outputPadded[i] = c.inputPadded[i] * c.kernelFFT[i]
		}
		if err := c.plan.Inverse(c.outputPadded, c.outputPadded); err != nil {
			return nil, fmt.Errorf("simulate: inverse FFT failed: %w", err)
		}

		resultLen := end - start + c.kernelLen - 1
		for i := 0; i < resultLen && start+i < outputLen; i++ {
			output[start+i] += real(c.outputPadded[i])
		}
	}

	return output, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
