package lantern

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the world-space position of the screen's top-left corner. The
// geometry and screen-light phases subtract it from world coordinates, so
// lights and geometry can be submitted in world space.
type Camera struct {
	// X and Y are the world position of the screen's top-left corner.
	X, Y float64

	// BoundsEnabled clamps the camera so the visible area stays within
	// Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the view is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	// ViewW and ViewH are the size of the visible area, set by the
	// pipeline's geometry phase each frame. Used for bounds clamping.
	ViewW, ViewH float64

	scrollTween *scrollAnim
}

// NewCamera creates a camera at the origin.
func NewCamera() *Camera {
	return &Camera{}
}

// Offset returns the camera position as a vector.
func (c *Camera) Offset() Vec2 {
	return Vec2{c.X, c.Y}
}

// WorldToScreen converts a world position to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	return Vec2{p.X - c.X, p.Y - c.Y}
}

// ScreenToWorld converts a screen position to world coordinates.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	return Vec2{p.X + c.X, p.Y + c.Y}
}

// ScrollTo animates the camera to the given world position over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances scroll tweens and applies bounds clamping. dt is in
// seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			x, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(x)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			y, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(y)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}
	c.clampToBounds()
}

func (c *Camera) clampToBounds() {
	if !c.BoundsEnabled {
		return
	}
	maxX := c.Bounds.X + c.Bounds.Width - c.ViewW
	maxY := c.Bounds.Y + c.Bounds.Height - c.ViewH
	if c.X > maxX {
		c.X = maxX
	}
	if c.Y > maxY {
		c.Y = maxY
	}
	if c.X < c.Bounds.X {
		c.X = c.Bounds.X
	}
	if c.Y < c.Bounds.Y {
		c.Y = c.Bounds.Y
	}
}
