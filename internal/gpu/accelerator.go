// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/retouch/internal/blend"
	"github.com/gogpu/retouch/internal/colormatrix"
	"github.com/gogpu/retouch/internal/logging"
)

// ErrNoHAL is returned when a device provider does not expose HAL objects.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

// Accelerator evaluates color matrices and opacity mixes through compute
// kernels. The zero value is not usable; call NewAccelerator.
//
// Accelerator is safe for concurrent use.
type Accelerator struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	// Compiled SPIR-V, keyed by kernel name.
	spirv map[string][]uint32

	matrix *kernel
	mix    *kernel

	dispatches uint64
}

// NewAccelerator returns an accelerator with no device attached.
func NewAccelerator() *Accelerator {
	return &Accelerator{spirv: make(map[string][]uint32)}
}

// Compile translates every kernel to SPIR-V. It needs no device and is
// called implicitly by SetDeviceProvider.
func (a *Accelerator) Compile() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.compileLocked()
}

func (a *Accelerator) compileLocked() error {
	for _, spec := range []kernelSpec{colorMatrixKernel, mixKernel} {
		if _, ok := a.spirv[spec.name]; ok {
			continue
		}
		code, err := CompileShaderToSPIRV(spec.source)
		if err != nil {
			return fmt.Errorf("gpu %s: %w", spec.name, err)
		}
		a.spirv[spec.name] = code
	}
	return nil
}

// SetDeviceProvider attaches a shared GPU device. The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue. The device stays owned by the provider.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked()
	if err := a.compileLocked(); err != nil {
		return err
	}
	matrix, err := newKernel(device, colorMatrixKernel, a.spirv[colorMatrixKernel.name])
	if err != nil {
		return err
	}
	mix, err := newKernel(device, mixKernel, a.spirv[mixKernel.name])
	if err != nil {
		matrix.destroy(device)
		return err
	}

	a.device, a.queue = device, queue
	a.matrix, a.mix = matrix, mix
	logging.L().Info("gpu: compute kernels ready", "kernels", 2)
	return nil
}

// Ready reports whether compute pipelines exist on an attached device.
func (a *Accelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.matrix != nil && a.mix != nil
}

// Dispatches returns the number of kernel dispatches submitted to the device.
func (a *Accelerator) Dispatches() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dispatches
}

// ApplyMatrix transforms src into dst with m. Both pixmaps must share
// dimensions; dst may be src. Without an attached device, or when the
// dispatch fails, the CPU reference path runs instead.
func (a *Accelerator) ApplyMatrix(m colormatrix.Matrix, src, dst *gg.Pixmap) error {
	if src == nil || dst == nil || src.Width() != dst.Width() || src.Height() != dst.Height() {
		return fmt.Errorf("gpu color_matrix: %w", blend.ErrSizeMismatch)
	}
	n := src.Width() * src.Height()

	a.mu.Lock()
	if a.matrix != nil && n > 0 {
		params := encodeMatrixParams(m, n)
		err := a.runLocked(a.matrix, n, params, [][]byte{src.Data()}, dst.Data())
		a.mu.Unlock()
		if err == nil {
			return nil
		}
		logging.L().Warn("gpu: dispatch failed, using CPU", "kernel", colorMatrixKernel.name, "err", err)
	} else {
		a.mu.Unlock()
	}

	m.Apply(src, dst)
	return nil
}

// Mix writes fg*alpha + bg*(1-alpha) into dst.
func (a *Accelerator) Mix(dst, fg, bg *gg.Pixmap, alpha float64) error {
	if dst == nil || fg == nil || bg == nil ||
		fg.Width() != dst.Width() || fg.Height() != dst.Height() ||
		bg.Width() != dst.Width() || bg.Height() != dst.Height() {
		return fmt.Errorf("gpu mix: %w", blend.ErrSizeMismatch)
	}
	n := dst.Width() * dst.Height()
	alpha = min(max(alpha, 0), 1)

	a.mu.Lock()
	if a.mix != nil && n > 0 {
		params := encodeMixParams(float32(alpha), n)
		err := a.runLocked(a.mix, n, params, [][]byte{fg.Data(), bg.Data()}, dst.Data())
		a.mu.Unlock()
		if err == nil {
			return nil
		}
		logging.L().Warn("gpu: dispatch failed, using CPU", "kernel", mixKernel.name, "err", err)
	} else {
		a.mu.Unlock()
	}

	if err := blend.Mix(dst, fg, bg, alpha); err != nil {
		return fmt.Errorf("gpu mix: %w", err)
	}
	return nil
}

// runLocked uploads params and inputs, dispatches k over n pixels and reads
// the output buffer back into out. Caller holds a.mu.
func (a *Accelerator) runLocked(k *kernel, n int, params []byte, inputs [][]byte, out []byte) error {
	size := uint64(len(out))

	var buffers []hal.Buffer
	defer func() {
		for _, buf := range buffers {
			a.device.DestroyBuffer(buf)
		}
	}()
	create := func(label string, size uint64, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
		buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
			Label: label,
			Size:  size,
			Usage: usage,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", label, err)
		}
		buffers = append(buffers, buf)
		if data != nil {
			if err := a.queue.WriteBuffer(buf, 0, data); err != nil {
				return nil, fmt.Errorf("write %s: %w", label, err)
			}
		}
		return buf, nil
	}
	binding := func(slot int, buf hal.Buffer, size uint64) gputypes.BindGroupEntry {
		return gputypes.BindGroupEntry{
			Binding:  uint32(slot),
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: size},
		}
	}

	paramsBuf, err := create(k.spec.name+"_params", uint64(len(params)),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst, params)
	if err != nil {
		return err
	}
	entries := []gputypes.BindGroupEntry{binding(0, paramsBuf, uint64(len(params)))}
	for i, data := range inputs {
		buf, err := create(fmt.Sprintf("%s_input%d", k.spec.name, i), uint64(len(data)),
			gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst, data)
		if err != nil {
			return err
		}
		entries = append(entries, binding(i+1, buf, uint64(len(data))))
	}
	outputBuf, err := create(k.spec.name+"_output", size,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc, nil)
	if err != nil {
		return err
	}
	entries = append(entries, binding(len(inputs)+1, outputBuf, size))
	stagingBuf, err := create(k.spec.name+"_staging", size,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst, nil)
	if err != nil {
		return err
	}

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   k.spec.name + "_bind_group",
		Layout:  k.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: k.spec.name + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(k.spec.name); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	x, y := dispatchSize(n)
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: k.spec.name + "_pass"})
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(x, y, 1)
	pass.End()

	encoder.CopyBufferToBuffer(outputBuf, stagingBuf, []hal.BufferCopy{{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      size,
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	if _, err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	a.dispatches++
	logging.L().Debug("gpu: dispatch", "kernel", k.spec.name, "pixels", n, "workgroups_x", x, "workgroups_y", y)

	if err := a.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait: %w", err)
	}

	mapping, err := a.device.MapBuffer(stagingBuf, 0, size)
	if err != nil {
		return fmt.Errorf("map staging: %w", err)
	}
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := a.device.UnmapBuffer(stagingBuf); err != nil {
		logging.L().Warn("gpu: unmap failed", "err", err)
	}
	return nil
}

// Close destroys the pipelines. The device itself belongs to the provider.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

func (a *Accelerator) releaseLocked() {
	if a.device != nil {
		a.matrix.destroy(a.device)
		a.mix.destroy(a.device)
	}
	a.matrix, a.mix = nil, nil
	a.device, a.queue = nil, nil
}
