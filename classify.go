package monoimg

// DefaultThreshold is the intensity at and above which an opaque pixel is
// classified as background.
const DefaultThreshold = 128

// Sample is a single pixel as read from a Grid: an 8-bit intensity and an
// optional 8-bit alpha.
type Sample struct {
	Y        uint8
	A        uint8
	HasAlpha bool
}

// Policy decides which pixels become ink bits.
type Policy struct {
	// Threshold splits dark from bright. Samples with Y < Threshold are ink.
	Threshold uint8
	// Invert makes bright pixels ink instead of dark ones.
	Invert bool
	// KeepTransparent classifies fully transparent pixels on their intensity
	// instead of forcing them to background.
	KeepTransparent bool
}

// DefaultPolicy returns the policy used when nothing else is configured.
func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultThreshold}
}

// Ink reports whether the sample is drawn in the foreground color.
// A sample exactly at the threshold is background.
func (p Policy) Ink(s Sample) bool {
	if s.HasAlpha && s.A == 0 && !p.KeepTransparent {
		return false
	}

	ink := s.Y < p.Threshold
	if p.Invert {
		return !ink
	}
	return ink
}
