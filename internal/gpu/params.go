// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/retouch/internal/colormatrix"
)

// Uniform buffer sizes. Must match Params in the WGSL sources.
const (
	matrixParamsSize = 96 // array<vec4<f32>, 5> + count + 3 pad
	mixParamsSize    = 16 // alpha + count + 2 pad
)

// encodeMatrixParams packs m and the pixel count into the colormatrix.wgsl
// Params layout.
func encodeMatrixParams(m colormatrix.Matrix, count int) []byte {
	buf := make([]byte, matrixParamsSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[80:], uint32(count))
	return buf
}

// encodeMixParams packs the opacity and pixel count into the mix.wgsl Params
// layout.
func encodeMixParams(alpha float32, count int) []byte {
	buf := make([]byte, mixParamsSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(alpha))
	binary.LittleEndian.PutUint32(buf[4:], uint32(count))
	return buf
}
