// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Vulkan backend for standalone compute devices.
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/retouch/internal/logging"
)

// ErrNoAdapter is returned when no GPU adapter can be opened.
var ErrNoAdapter = errors.New("gpu: no compute adapter available")

// Device is a compute-only device opened without a window. It satisfies
// the provider contract of Accelerator.SetDeviceProvider.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
}

// OpenDevice opens a standalone Vulkan device, preferring discrete and
// integrated GPUs over software adapters.
func OpenDevice() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not registered", ErrNoAdapter)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoAdapter, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if t := adapters[i].Info.DeviceType; t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open %s: %w", ErrNoAdapter, selected.Info.Name, err)
	}
	logging.L().Info("gpu: standalone device opened", "adapter", selected.Info.Name)
	return &Device{instance: instance, device: open.Device, queue: open.Queue, name: selected.Info.Name}, nil
}

func (d *Device) HalDevice() any { return d.device }
func (d *Device) HalQueue() any  { return d.queue }

// Name returns the adapter name.
func (d *Device) Name() string { return d.name }

// Close destroys the device. Accelerators using it must be closed first.
func (d *Device) Close() {
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
