package pages

import (
	"math"
	"testing"
)

func TestFitBounds(t *testing.T) {
	c := DefaultConstraints()
	viewports := []Size{
		{Width: 320, Height: 240},
		{Width: 1280, Height: 720},
		{Width: 1920, Height: 1080},
		{Width: 3840, Height: 2160},
		{Width: 1, Height: 1},
	}
	for _, vp := range viewports {
		got := Fit(A4Size, vp, c)
		if got.Scale < c.MinScale || got.Scale > c.MaxScale {
			t.Errorf("viewport %+v: scale %v outside [%v, %v]", vp, got.Scale, c.MinScale, c.MaxScale)
		}
		wantRatio := A4Size.Width / A4Size.Height
		gotRatio := got.Width / got.Height
		if math.Abs(gotRatio-wantRatio) > 1e-9 {
			t.Errorf("viewport %+v: aspect ratio %v, want %v", vp, gotRatio, wantRatio)
		}
	}
}

func TestFitSmallViewportClampsToFloor(t *testing.T) {
	got := Fit(A4Size, Size{Width: 100, Height: 100}, DefaultConstraints())
	if got.Scale != DefaultConstraints().MinScale {
		t.Errorf("scale = %v, want floor %v", got.Scale, DefaultConstraints().MinScale)
	}
}

func TestFitLargeViewportCapsAtCeiling(t *testing.T) {
	got := Fit(A4Size, Size{Width: 10000, Height: 10000}, DefaultConstraints())
	if got.Scale != DefaultConstraints().MaxScale {
		t.Errorf("scale = %v, want cap %v", got.Scale, DefaultConstraints().MaxScale)
	}
}

func TestFitRespectsContainerFractions(t *testing.T) {
	c := Constraints{
		WidthFraction:      0.5,
		HeightFraction:     0.5,
		MaxContainerWidth:  10000,
		MaxContainerHeight: 10000,
		MinScale:           0.01,
		MaxScale:           100,
	}
	vp := Size{Width: 420, Height: 10000}
	got := Fit(A4Size, vp, c)
	// Width-constrained: container is 210 wide, page is 210 wide, scale 1.
	if math.Abs(got.Scale-1.0) > 1e-9 {
		t.Errorf("scale = %v, want 1.0", got.Scale)
	}
	if math.Abs(got.Width-210) > 1e-9 {
		t.Errorf("width = %v, want 210", got.Width)
	}
}

func TestFitZeroPageSize(t *testing.T) {
	got := Fit(Size{}, Size{Width: 1000, Height: 1000}, DefaultConstraints())
	if got.Scale != DefaultConstraints().MinScale {
		t.Errorf("scale = %v, want floor", got.Scale)
	}
	if got.Width != 0 || got.Height != 0 {
		t.Errorf("dimensions = %vx%v, want zero", got.Width, got.Height)
	}
}

func TestFitZeroConstraintsUseDefaults(t *testing.T) {
	a := Fit(A4Size, Size{Width: 1920, Height: 1080}, Constraints{})
	b := Fit(A4Size, Size{Width: 1920, Height: 1080}, DefaultConstraints())
	if a != b {
		t.Errorf("zero constraints %+v != defaults %+v", a, b)
	}
}
