//go:build !opencl

package sim

import "errors"

// RunnerSolver is the OpenCL rasterization path; this stub stands in when the
// binary is built without OpenCL support.
type RunnerSolver struct{}

// NewRunnerSolver always fails without the opencl build tag.
func NewRunnerSolver(race *Race, width, height int) (*RunnerSolver, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

// Draw is unavailable without the opencl build tag.
func (s *RunnerSolver) Draw(t float64, background uint32, f *Frame) error {
	return errors.New("OpenCL solver unavailable")
}

// Close is a no-op for the stub.
func (s *RunnerSolver) Close() {}

// DeviceName reports no device for the stub.
func (s *RunnerSolver) DeviceName() string { return "" }
