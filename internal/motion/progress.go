// Package motion computes the values that drive the site's animated effects:
// normalized progress from time, scroll or pointer input, particle lifecycles,
// and the frame loop that advances them. It never touches a rendering surface;
// callers receive plain values and apply them however they render.
package motion

import (
	"math"
	"time"
)

// Rect is an element's bounding box in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the rect has no area. Effects tracking an empty rect
// degrade to a no-op.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// Intersect returns the overlapping area of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.X+r.Width, o.X+o.Width)
	y1 := math.Min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// Lerp interpolates between a and b by t, with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// TimeProgress is elapsed/duration clamped to [0, 1]. A non-positive
// duration is treated as already complete.
func TimeProgress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return Clamp01(float64(elapsed) / float64(duration))
}

// Cycle is the free-running phase of a repeating animation with the given
// period, in [0, 1).
func Cycle(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	e := elapsed % period
	if e < 0 {
		e += period
	}
	return float64(e) / float64(period)
}

// ScrollProgress measures how far an element has travelled through the
// viewport: 0 while its top edge sits at the bottom of the viewport, 1 once
// its bottom edge has left through the top. ok is false for an empty element
// or a viewport with no height.
func ScrollProgress(el Rect, viewportHeight float64) (p float64, ok bool) {
	if el.Empty() || !(viewportHeight > 0) {
		return 0, false
	}
	travel := viewportHeight + el.Height
	return Clamp01((viewportHeight - el.Y) / travel), true
}

// IntersectionRatio is the visible fraction of el inside viewport, in [0, 1].
func IntersectionRatio(el, viewport Rect) float64 {
	if el.Empty() {
		return 0
	}
	in := el.Intersect(viewport)
	return Clamp01((in.Width * in.Height) / (el.Width * el.Height))
}

// PointerOffset maps a pointer position to the element's local space,
// normalized so the center is (0, 0) and the edges are ±1. Positions outside
// the element clamp to the edge.
func PointerOffset(el Rect, px, py float64) (x, y float64, ok bool) {
	if el.Empty() {
		return 0, 0, false
	}
	x = (px-el.X)/el.Width*2 - 1
	y = (py-el.Y)/el.Height*2 - 1
	return Clamp(x, -1, 1), Clamp(y, -1, 1), true
}

// Parallax converts a scroll progress into a translation. At progress 0.5
// the element sits at its layout position; speed scales the travel distance.
func Parallax(progress, distance, speed float64) float64 {
	return (Clamp01(progress) - 0.5) * distance * speed
}
