package lantern

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTexture is a persistent offscreen buffer owned by the pipeline or
// the caller. The pipeline's screen buffers (albedo, normals, occlusion,
// screen light, result) are RenderTextures sized to the frame and recreated
// on resize.
type RenderTexture struct {
	image *ebiten.Image
	w, h  int
}

// NewRenderTexture creates an offscreen buffer of the given size.
func NewRenderTexture(w, h int) *RenderTexture {
	return &RenderTexture{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying *ebiten.Image.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

// Width returns the buffer width in pixels.
func (rt *RenderTexture) Width() int {
	return rt.w
}

// Height returns the buffer height in pixels.
func (rt *RenderTexture) Height() int {
	return rt.h
}

// Clear fills the buffer with transparent black.
func (rt *RenderTexture) Clear() {
	rt.image.Clear()
}

// Fill fills the buffer with the given color.
func (rt *RenderTexture) Fill(c Color) {
	rt.image.Fill(c.toRGBA())
}

// ensureSize recreates the buffer when the requested size differs,
// returning true when a recreation happened. The old image is disposed.
func (rt *RenderTexture) ensureSize(w, h int) bool {
	if rt.w == w && rt.h == h {
		return false
	}
	if rt.image != nil {
		rt.image.Deallocate()
	}
	rt.image = ebiten.NewImage(w, h)
	rt.w = w
	rt.h = h
	return true
}

// DrawImageAt draws src at the given position with the specified blend mode.
func (rt *RenderTexture) DrawImageAt(src *ebiten.Image, x, y float64, blend BlendMode) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	op.Blend = blend.EbitenBlend()
	rt.image.DrawImage(src, &op)
}
