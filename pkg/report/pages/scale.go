package pages

// Size is a width/height pair in display units. Page sizes preserve real
// paper aspect ratios; viewport sizes are pixels.
type Size struct {
	Width  float64
	Height float64
}

// Standard page mockup sizes (millimetre aspect ratios).
var (
	A4Size     = Size{Width: 210, Height: 297}
	LetterSize = Size{Width: 216, Height: 279}
)

// Constraints bound the preview scale computation. Zero-valued fields fall
// back to the package defaults.
type Constraints struct {
	// WidthFraction and HeightFraction cap the container at a fraction of
	// the viewport.
	WidthFraction  float64
	HeightFraction float64
	// MaxContainerWidth and MaxContainerHeight are absolute pixel ceilings
	// on the container.
	MaxContainerWidth  float64
	MaxContainerHeight float64
	// MinScale keeps the page legible; MaxScale keeps it near native size.
	MinScale float64
	MaxScale float64
}

// DefaultConstraints returns the standard preview bounds.
func DefaultConstraints() Constraints {
	return Constraints{
		WidthFraction:      0.52,
		HeightFraction:     0.80,
		MaxContainerWidth:  760,
		MaxContainerHeight: 1040,
		MinScale:           0.7,
		MaxScale:           1.1,
	}
}

// Preview is a scaled page mockup: the scale factor and the resulting
// dimensions, aspect ratio preserved.
type Preview struct {
	Width  float64
	Height float64
	Scale  float64
}

// Fit computes the display scale for a page mockup inside the viewport.
// Viewport dimensions are an injected input; callers re-invoke Fit whenever
// the viewport changes. The returned scale always lies within
// [MinScale, MaxScale].
func Fit(page, viewport Size, c Constraints) Preview {
	c = c.withDefaults()

	if page.Width <= 0 || page.Height <= 0 {
		return Preview{Scale: c.MinScale}
	}

	availW := minFloat(viewport.Width*c.WidthFraction, c.MaxContainerWidth)
	availH := minFloat(viewport.Height*c.HeightFraction, c.MaxContainerHeight)

	scale := minFloat(availW/page.Width, availH/page.Height)
	if scale > c.MaxScale {
		scale = c.MaxScale
	}
	if scale < c.MinScale {
		scale = c.MinScale
	}

	return Preview{
		Width:  page.Width * scale,
		Height: page.Height * scale,
		Scale:  scale,
	}
}

func (c Constraints) withDefaults() Constraints {
	d := DefaultConstraints()
	if c.WidthFraction <= 0 {
		c.WidthFraction = d.WidthFraction
	}
	if c.HeightFraction <= 0 {
		c.HeightFraction = d.HeightFraction
	}
	if c.MaxContainerWidth <= 0 {
		c.MaxContainerWidth = d.MaxContainerWidth
	}
	if c.MaxContainerHeight <= 0 {
		c.MaxContainerHeight = d.MaxContainerHeight
	}
	if c.MinScale <= 0 {
		c.MinScale = d.MinScale
	}
	if c.MaxScale <= 0 {
		c.MaxScale = d.MaxScale
	}
	return c
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
