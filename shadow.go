package jigsaw

// Shadow describes one inner shadow pass applied to every piece.
// Offset and BlurRadius are in points and get multiplied by the source scale.
type Shadow struct {
	Color      RGBA
	Offset     Point
	BlurRadius float64
}

// DefaultDarkShadow returns the first shadow pass: a grey shade cast from
// the bottom-right edges.
func DefaultDarkShadow() Shadow {
	return Shadow{
		Color:      RGBA2(0.5, 0.5, 0.5, 0.75),
		Offset:     Pt(-1, -1),
		BlurRadius: 2,
	}
}

// DefaultLightShadow returns the second shadow pass: a white highlight cast
// from the top-left edges.
func DefaultLightShadow() Shadow {
	return Shadow{
		Color:      RGBA2(1, 1, 1, 0.75),
		Offset:     Pt(1, 1),
		BlurRadius: 2,
	}
}

// scaled returns the shadow with offset and radius converted to pixels.
func (s Shadow) scaled(scale float64) Shadow {
	s.Offset = s.Offset.Mul(scale)
	s.BlurRadius *= scale
	return s
}
