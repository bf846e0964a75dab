package blend

// div255 divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
//
// Exact for every product of two bytes, so a blend at weight 255 returns the
// source byte unchanged.
func div255(x uint32) uint32 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// lerp255 mixes a and b at weight w/255 towards a, rounding to nearest.
func lerp255(a, b, w byte) byte {
	return byte(div255(uint32(a)*uint32(w) + uint32(b)*uint32(255-w) + 127))
}
