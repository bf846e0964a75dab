package filter

// Family groups filters by how their value is interpreted.
type Family string

const (
	// FamilyAdjustment filters feed their value to an image operator.
	FamilyAdjustment Family = "adjustment"
	// FamilyStyle filters blend a fixed look at an intensity.
	FamilyStyle Family = "style"
)

// Valid reports whether f is a known family.
func (f Family) Valid() bool {
	return f == FamilyAdjustment || f == FamilyStyle
}

// Kind identifies a filter within the catalogue.
type Kind string

// Adjustment kinds.
const (
	Exposure   Kind = "exposure"
	Brightness Kind = "brightness"
	Contrast   Kind = "contrast"
	Saturation Kind = "saturation"
	Warmth     Kind = "warmth"
	Tint       Kind = "tint"
	Highlights Kind = "highlights"
	Shadows    Kind = "shadows"
	Vignette   Kind = "vignette"
)

// Style kinds.
const (
	Chrome   Kind = "chrome"
	Fade     Kind = "fade"
	Instant  Kind = "instant"
	Mono     Kind = "mono"
	Noir     Kind = "noir"
	Process  Kind = "process"
	Tonal    Kind = "tonal"
	Transfer Kind = "transfer"
)

// ValueFor converts a slider value of kind into the operator input.
// Warmth and tint map to one axis each of the white balance vector; every
// other kind is a scalar.
func ValueFor(kind Kind, v float64) Value {
	switch kind {
	case Warmth:
		return Vector2(v, 0)
	case Tint:
		return Vector2(0, v)
	default:
		return Scalar(v)
	}
}
