package valueobject

import "math"

// Dimensions is a width x height pair. A zero component means that axis
// is unbounded when used as a cap.
type Dimensions struct {
	Width  int
	Height int
}

func NewDimensions(width, height int) Dimensions {
	return Dimensions{Width: width, Height: height}
}

func (d Dimensions) IsZero() bool {
	return d.Width <= 0 && d.Height <= 0
}

func (d Dimensions) Pixels() int64 {
	return int64(d.Width) * int64(d.Height)
}

// FitInside returns the size src scales to when fitted inside d while
// keeping its aspect ratio. It never enlarges.
func (d Dimensions) FitInside(src Dimensions) Dimensions {
	maxW, maxH := d.Width, d.Height
	if maxW <= 0 {
		maxW = src.Width
	}
	if maxH <= 0 {
		maxH = src.Height
	}
	if src.Width <= maxW && src.Height <= maxH {
		return src
	}

	srcAspect := float64(src.Width) / float64(src.Height)
	maxAspect := float64(maxW) / float64(maxH)

	var w, h int
	if srcAspect > maxAspect {
		w = maxW
		h = int(math.Round(float64(w) / srcAspect))
	} else {
		h = maxH
		w = int(math.Round(float64(h) * srcAspect))
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Dimensions{Width: w, Height: h}
}
