//go:build opencl

package sim

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// RunnerSolver rasterizes linear-motion runners on an OpenCL device. Linear
// positions are a pure function of the start grid and the clock, so the
// device keeps the runner data resident and only the pixel buffer crosses
// back per frame. Wander motion carries per-runner RNG state and stays on the
// CPU paths.
type RunnerSolver struct {
	context     *cl.Context
	queue       *cl.CommandQueue
	program     *cl.Program
	clearKernel *cl.Kernel
	drawKernel  *cl.Kernel

	startXBuf *cl.MemObject
	startYBuf *cl.MemObject
	speedBuf  *cl.MemObject
	colorBuf  *cl.MemObject
	pixelBuf  *cl.MemObject

	width      int
	height     int
	count      int
	radius     int
	bandStride int
	deviceName string
}

const runnerKernelSource = `__kernel void clear_frame(
    const int size,
    const int color,
    __global uint* pixels)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    pixels[idx] = (uint)color;
}

__kernel void draw_runners(
    const int width,
    const int height,
    const int count,
    const int radius,
    const int band_stride,
    const float t,
    __global const float* start_x,
    __global const float* start_y,
    __global const float* speed,
    __global const uint* colors,
    __global uint* pixels)
{
    int i = get_global_id(0);
    if (i >= count) {
        return;
    }
    float x = start_x[i] + speed[i] * t;
    float y = start_y[i];
    uint color = colors[i];
    for (int dx = -(radius + 1); dx < radius; dx++) {
        for (int dy = -(radius + 1); dy < radius; dy++) {
            if (dx * dx + dy * dy > radius * radius) {
                continue;
            }
            float fx = x + (float)dx;
            float fy = y + (float)dy;
            if (fx < 0.0f || fy < 0.0f) {
                continue;
            }
            int px = ((int)fx) % width;
            int py = (int)fy + band_stride * ((int)fx / width);
            if (px < 0 || px >= width || py < 0 || py >= height) {
                continue;
            }
            pixels[py * width + px] = color;
        }
    }
}`

// NewRunnerSolver uploads the race's runner data to the first available GPU
// (falling back to a CPU device) and compiles the rasterization kernels.
func NewRunnerSolver(race *Race, width, height int) (*RunnerSolver, error) {
	if race.Mode() != MotionLinear {
		return nil, errors.New("the OpenCL path only supports linear motion")
	}
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return nil, fmt.Errorf("querying OpenCL platforms: %w", err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		for _, p := range platforms {
			devices, derr := p.GetDevices(cl.DeviceTypeCPU)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	s := &RunnerSolver{
		width:      width,
		height:     height,
		count:      race.Len(),
		radius:     race.cfg.Radius,
		bandStride: 2 * race.cfg.AlignedPerRow * race.cfg.StartDistance,
		deviceName: device.Name(),
	}
	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{runnerKernelSource}); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err = s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.clearKernel, err = s.program.CreateKernel("clear_frame"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating clear kernel: %w", err)
	}
	if s.drawKernel, err = s.program.CreateKernel("draw_runners"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating draw kernel: %w", err)
	}

	floatBytes := s.count * int(unsafe.Sizeof(float32(0)))
	uintBytes := s.count * int(unsafe.Sizeof(uint32(0)))
	pixelBytes := width * height * int(unsafe.Sizeof(uint32(0)))
	if s.startXBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, floatBytes); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating start x buffer: %w", err)
	}
	if s.startYBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, floatBytes); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating start y buffer: %w", err)
	}
	if s.speedBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, floatBytes); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating speed buffer: %w", err)
	}
	if s.colorBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, uintBytes); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating color buffer: %w", err)
	}
	if s.pixelBuf, err = s.context.CreateEmptyBuffer(cl.MemWriteOnly, pixelBytes); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating pixel buffer: %w", err)
	}

	if err = s.uploadRunners(race); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// uploadRunners writes the static per-runner arrays once; the linear model
// never mutates them.
func (s *RunnerSolver) uploadRunners(race *Race) error {
	startX := make([]float32, s.count)
	startY := make([]float32, s.count)
	speed := make([]float32, s.count)
	colors := make([]uint32, s.count)
	for i, r := range race.runners {
		startX[i] = float32(r.startX)
		startY[i] = float32(r.startY)
		speed[i] = float32(r.speed)
		colors[i] = race.waves.Wave(r.wave).Color
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.startXBuf, false, 0, startX, nil); err != nil {
		return fmt.Errorf("writing start x buffer: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.startYBuf, false, 0, startY, nil); err != nil {
		return fmt.Errorf("writing start y buffer: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.speedBuf, false, 0, speed, nil); err != nil {
		return fmt.Errorf("writing speed buffer: %w", err)
	}
	byteLen := len(colors) * int(unsafe.Sizeof(uint32(0)))
	if _, err := s.queue.EnqueueWriteBuffer(s.colorBuf, true, 0, byteLen, unsafe.Pointer(&colors[0]), nil); err != nil {
		return fmt.Errorf("writing color buffer: %w", err)
	}
	return nil
}

// Draw clears the device pixel buffer, rasterizes every runner at simulation
// time t, and reads the result back into the frame.
func (s *RunnerSolver) Draw(t float64, background uint32, f *Frame) error {
	if f.Width != s.width || f.Height != s.height || len(f.Pix) != s.width*s.height {
		return fmt.Errorf("unexpected frame size %dx%d", f.Width, f.Height)
	}
	size := s.width * s.height
	if err := s.clearKernel.SetArgs(int32(size), int32(background), s.pixelBuf); err != nil {
		return fmt.Errorf("setting clear kernel arguments: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.clearKernel, nil, []int{size}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing clear kernel: %w", err)
	}
	if err := s.drawKernel.SetArgs(
		int32(s.width),
		int32(s.height),
		int32(s.count),
		int32(s.radius),
		int32(s.bandStride),
		float32(t),
		s.startXBuf,
		s.startYBuf,
		s.speedBuf,
		s.colorBuf,
		s.pixelBuf,
	); err != nil {
		return fmt.Errorf("setting draw kernel arguments: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.drawKernel, nil, []int{s.count}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing draw kernel: %w", err)
	}
	byteLen := size * int(unsafe.Sizeof(uint32(0)))
	if _, err := s.queue.EnqueueReadBuffer(s.pixelBuf, true, 0, byteLen, unsafe.Pointer(&f.Pix[0]), nil); err != nil {
		return fmt.Errorf("reading pixel buffer: %w", err)
	}
	return nil
}

// Close releases every OpenCL object; safe on partially constructed solvers.
func (s *RunnerSolver) Close() {
	if s.pixelBuf != nil {
		s.pixelBuf.Release()
		s.pixelBuf = nil
	}
	if s.colorBuf != nil {
		s.colorBuf.Release()
		s.colorBuf = nil
	}
	if s.speedBuf != nil {
		s.speedBuf.Release()
		s.speedBuf = nil
	}
	if s.startYBuf != nil {
		s.startYBuf.Release()
		s.startYBuf = nil
	}
	if s.startXBuf != nil {
		s.startXBuf.Release()
		s.startXBuf = nil
	}
	if s.drawKernel != nil {
		s.drawKernel.Release()
		s.drawKernel = nil
	}
	if s.clearKernel != nil {
		s.clearKernel.Release()
		s.clearKernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

// DeviceName reports the OpenCL device the solver runs on.
func (s *RunnerSolver) DeviceName() string { return s.deviceName }
