package lantern

import (
	"math"
	"testing"
)

func TestWraparoundTagAnglesNormal(t *testing.T) {
	tags := wraparoundTagAngles(0.5, 1.0)
	want := [4]float64{0.5, 1.0, 0.5, 1.0}
	if tags != want {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestWraparoundTagAnglesWrapped(t *testing.T) {
	// An edge spanning the -π/π seam: tags 0 and 3 clamp to the extremes,
	// tags 1 and 2 keep the endpoint min/max.
	tags := wraparoundTagAngles(3.0, -3.0)
	want := [4]float64{-math.Pi, -3.0, 3.0, math.Pi}
	for i := range tags {
		if !approxEqual(tags[i], want[i], epsilon) {
			t.Errorf("tags[%d] = %f, want %f", i, tags[i], want[i])
		}
	}

	// endpoint order must not matter
	swapped := wraparoundTagAngles(-3.0, 3.0)
	for i := range swapped {
		if !approxEqual(swapped[i], want[i], epsilon) {
			t.Errorf("swapped tags[%d] = %f, want %f", i, swapped[i], want[i])
		}
	}
}

func TestSegmentCastsShadow(t *testing.T) {
	seg := OccluderVertex{IgnoreLight1: 1, IgnoreLight2: IgnoreNone}
	if segmentCastsShadow(Light{}, 1, seg) {
		t.Error("ignored light index should not be shadowed")
	}
	if !segmentCastsShadow(Light{}, 0, seg) {
		t.Error("other light indices should be shadowed")
	}

	tall := OccluderVertex{Height: 10, IgnoreLight1: IgnoreNone, IgnoreLight2: IgnoreNone}
	if segmentCastsShadow(Light{Height: 10}, 0, tall) {
		t.Error("light at occluder height should pass over")
	}
	if !segmentCastsShadow(Light{Height: 5}, 0, tall) {
		t.Error("light below occluder height should be shadowed")
	}
	full := OccluderVertex{IgnoreLight1: IgnoreNone, IgnoreLight2: IgnoreNone}
	if !segmentCastsShadow(Light{Height: 100}, 0, full) {
		t.Error("zero-height occluders shadow every light")
	}
}

func TestAppendSegmentEmitsTwoSpanQuads(t *testing.T) {
	p := &shadowMapPass{resolution: 64, maxLights: 4}
	light := Light{Position: Vec2{0, 0}, Radius: 100}
	seg := OccluderVertex{
		LineA:        Vec2{10, -5},
		LineB:        Vec2{10, 5},
		IgnoreLight1: IgnoreNone,
		IgnoreLight2: IgnoreNone,
	}
	p.appendSegment(light, 2, seg)

	if len(p.verts) != 8 {
		t.Fatalf("len(verts) = %d, want 8", len(p.verts))
	}
	if len(p.inds) != 12 {
		t.Fatalf("len(inds) = %d, want 12", len(p.inds))
	}
	for i, v := range p.verts {
		if v.DstY != 2 && v.DstY != 3 {
			t.Errorf("vertex %d DstY = %f, want row 2 or 3", i, v.DstY)
		}
		if v.Custom0 != 10 || v.Custom1 != -5 || v.Custom2 != 10 || v.Custom3 != 5 {
			t.Errorf("vertex %d custom attrs = (%f,%f,%f,%f), want edge endpoints", i, v.Custom0, v.Custom1, v.Custom2, v.Custom3)
		}
	}

	// a non-wrapped edge emits the same span twice; minimum blending makes
	// the duplicate harmless
	if p.verts[0].DstX != p.verts[4].DstX || p.verts[1].DstX != p.verts[5].DstX {
		t.Error("both spans of a non-wrapped edge should cover the same x range")
	}
}

func TestAppendSegmentWrappedSpans(t *testing.T) {
	p := &shadowMapPass{resolution: 360, maxLights: 1}
	light := Light{Position: Vec2{0, 0}, Radius: 100}
	// edge crossing the negative x axis, where the angle wraps
	seg := OccluderVertex{
		LineA:        Vec2{-10, -5},
		LineB:        Vec2{-10, 5},
		IgnoreLight1: IgnoreNone,
		IgnoreLight2: IgnoreNone,
	}
	p.appendSegment(light, 0, seg)

	if len(p.verts) != 8 {
		t.Fatalf("len(verts) = %d, want 8", len(p.verts))
	}
	// first span hugs the left edge of the row, second span the right edge
	if p.verts[0].DstX > 0 {
		t.Errorf("first span starts at x = %f, want at or before 0", p.verts[0].DstX)
	}
	if p.verts[5].DstX < 360 {
		t.Errorf("second span ends at x = %f, want at or past 360", p.verts[5].DstX)
	}
	// neither span covers the middle of the row
	mid := float32(180)
	if p.verts[1].DstX > mid || p.verts[4].DstX < mid {
		t.Error("wrapped spans should leave the opposite side of the row uncovered")
	}
}

func TestAppendSegmentFrontFlag(t *testing.T) {
	p := &shadowMapPass{resolution: 64, maxLights: 1}
	light := Light{Position: Vec2{0, 0}, Radius: 100}

	// the same edge in both directions flips the front classification
	a := OccluderVertex{LineA: Vec2{10, -5}, LineB: Vec2{10, 5}, IgnoreLight1: IgnoreNone, IgnoreLight2: IgnoreNone}
	b := OccluderVertex{LineA: Vec2{10, 5}, LineB: Vec2{10, -5}, IgnoreLight1: IgnoreNone, IgnoreLight2: IgnoreNone}

	p.appendSegment(light, 0, a)
	flagA := p.verts[0].ColorR
	p.verts = p.verts[:0]
	p.inds = p.inds[:0]
	p.appendSegment(light, 0, b)
	flagB := p.verts[0].ColorR

	if flagA == flagB {
		t.Errorf("front flags = %f and %f, want them to differ", flagA, flagB)
	}
}

func TestShadowSpanQuadPadding(t *testing.T) {
	p := &shadowMapPass{resolution: 64, maxLights: 1}
	p.appendSpanQuad(0, math.Pi/2, 0, Vec2{1, 0}, Vec2{0, 1}, true)
	if len(p.verts) != 4 {
		t.Fatalf("len(verts) = %d, want 4", len(p.verts))
	}
	// angle 0 maps to the row center, π/2 to three quarters, padded by one
	// texel on each side
	if !approxEqual(float64(p.verts[0].DstX), 32-spanPaddingTexels, epsilon) {
		t.Errorf("x0 = %f, want %f", p.verts[0].DstX, 32-spanPaddingTexels)
	}
	if !approxEqual(float64(p.verts[1].DstX), 48+spanPaddingTexels, epsilon) {
		t.Errorf("x1 = %f, want %f", p.verts[1].DstX, 48+spanPaddingTexels)
	}
}

func TestMinBlendFoldIdempotent(t *testing.T) {
	// The shadow map accumulates with component-wise min blending, so
	// folding the same candidate distances in any order, any number of
	// times, must give the same texel.
	fold := func(texel [2]float64, d [2]float64) [2]float64 {
		return [2]float64{math.Min(texel[0], d[0]), math.Min(texel[1], d[1])}
	}

	candidates := [][2]float64{{0.8, 0.9}, {0.4, 0.95}, {0.6, 0.5}}

	once := [2]float64{1, 1}
	for _, d := range candidates {
		once = fold(once, d)
	}
	twice := once
	for _, d := range candidates {
		twice = fold(twice, d)
	}
	if twice != once {
		t.Errorf("re-folding changed texel: %v, want %v", twice, once)
	}

	reversed := [2]float64{1, 1}
	for i := len(candidates) - 1; i >= 0; i-- {
		reversed = fold(reversed, candidates[i])
	}
	if reversed != once {
		t.Errorf("reversed fold = %v, want %v", reversed, once)
	}

	want := [2]float64{0.4, 0.5}
	if once != want {
		t.Errorf("folded texel = %v, want %v", once, want)
	}
}
