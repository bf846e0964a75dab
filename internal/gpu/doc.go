// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu provides the compute kernels behind the adjustment and style
// engines: a 4x5 color matrix and an opacity mix over premultiplied RGBA8.
//
// Kernels are written in WGSL, compiled to SPIR-V with naga and turned into
// HAL compute pipelines once a device provider is attached. Each call
// uploads the pixels, dispatches one thread per pixel and reads the result
// back through a staging buffer. Without a device, or when a dispatch step
// fails, the CPU reference path that mirrors the shader runs instead.
package gpu
