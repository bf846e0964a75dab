// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/colormatrix.wgsl
var colorMatrixWGSL string

//go:embed shaders/mix.wgsl
var mixWGSL string

// workgroupSize must match @workgroup_size in every kernel.
const workgroupSize = 64

// kernelSpec describes one compute kernel and its single bind group.
type kernelSpec struct {
	name       string
	source     string
	entryPoint string
	// uniformSize is the byte size of the Params struct at binding 0.
	uniformSize uint64
	// inputs is the number of read-only storage buffers after the uniform.
	inputs int
}

var (
	colorMatrixKernel = kernelSpec{
		name:        "color_matrix",
		source:      colorMatrixWGSL,
		entryPoint:  "cs_color_matrix",
		uniformSize: matrixParamsSize,
		inputs:      1,
	}
	mixKernel = kernelSpec{
		name:        "mix",
		source:      mixWGSL,
		entryPoint:  "cs_mix",
		uniformSize: mixParamsSize,
		inputs:      2,
	}
)

// CompileShaderToSPIRV compiles WGSL source to SPIR-V words.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// kernel holds the HAL objects of one compiled compute kernel.
type kernel struct {
	spec       kernelSpec
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	layout     hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// newKernel builds the pipeline for spec from precompiled SPIR-V.
// On failure every partially created object is destroyed.
func newKernel(device hal.Device, spec kernelSpec, spirv []uint32) (*kernel, error) {
	k := &kernel{spec: spec}
	if err := k.init(device, spirv); err != nil {
		k.destroy(device)
		return nil, fmt.Errorf("gpu %s: %w", spec.name, err)
	}
	return k, nil
}

func (k *kernel) init(device hal.Device, spirv []uint32) error {
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: k.spec.name + "_shader",
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}
	k.module = module

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   k.spec.name + "_layout",
		Entries: k.spec.layoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}
	k.bindLayout = bindLayout

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            k.spec.name + "_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	k.layout = layout

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  k.spec.name + "_pipeline",
		Layout: k.layout,
		Compute: hal.ComputeState{
			Module:     k.module,
			EntryPoint: k.spec.entryPoint,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute pipeline: %w", err)
	}
	k.pipeline = pipeline
	return nil
}

// layoutEntries returns uniform params, the read-only inputs and the output,
// in binding order.
func (s kernelSpec) layoutEntries() []gputypes.BindGroupLayoutEntry {
	entries := []gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStageCompute,
		Buffer: &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: s.uniformSize,
		},
	}}
	for i := 0; i < s.inputs; i++ {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i + 1),
			Visibility: gputypes.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{
				Type: gputypes.BufferBindingTypeReadOnlyStorage,
			},
		})
	}
	return append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    uint32(s.inputs + 1),
		Visibility: gputypes.ShaderStageCompute,
		Buffer: &gputypes.BufferBindingLayout{
			Type: gputypes.BufferBindingTypeStorage,
		},
	})
}

// destroy releases HAL objects in reverse creation order.
func (k *kernel) destroy(device hal.Device) {
	if k == nil || device == nil {
		return
	}
	if k.pipeline != nil {
		device.DestroyComputePipeline(k.pipeline)
		k.pipeline = nil
	}
	if k.layout != nil {
		device.DestroyPipelineLayout(k.layout)
		k.layout = nil
	}
	if k.bindLayout != nil {
		device.DestroyBindGroupLayout(k.bindLayout)
		k.bindLayout = nil
	}
	if k.module != nil {
		device.DestroyShaderModule(k.module)
		k.module = nil
	}
}

// maxWorkgroupsPerDimension is the WebGPU default limit for one dispatch axis.
const maxWorkgroupsPerDimension = 65535

// workgroups returns the number of workgroups needed for n pixels.
func workgroups(n int) uint32 {
	return uint32((n + workgroupSize - 1) / workgroupSize)
}

// dispatchSize spreads the workgroups for n pixels over x and y. Kernels
// recover the pixel index as id.x + id.y * num_workgroups.x * workgroupSize.
func dispatchSize(n int) (x, y uint32) {
	total := workgroups(n)
	if total <= maxWorkgroupsPerDimension {
		return total, 1
	}
	y = (total + maxWorkgroupsPerDimension - 1) / maxWorkgroupsPerDimension
	return maxWorkgroupsPerDimension, y
}
