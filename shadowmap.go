package lantern

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// shadowMapPass rasterizes occluder edges into the shadow map. Each light
// occupies one row; each edge contributes a one-row-tall quad spanning the
// edge's angular extent as seen from the light. The fragment shader computes
// the exact ray-segment hit distance per angle bucket, and minimum blending
// keeps the nearest occluder.
//
// Kage has no vertex stage, so the angle projection, wraparound handling,
// and front/back classification run on the CPU here; the fragment shader
// receives the edge endpoints (relative to the light) through the vertex
// custom attributes.
type shadowMapPass struct {
	shader     *ebiten.Shader
	resolution int
	maxLights  int

	// scratch buffers reused across draws
	verts []ebiten.Vertex
	inds  []uint32
}

func newShadowMapPass(cfg Config) (*shadowMapPass, error) {
	shader, err := compileShadowMapShader()
	if err != nil {
		return nil, err
	}
	return &shadowMapPass{
		shader:     shader,
		resolution: cfg.ShadowMapResolution,
		maxLights:  cfg.MaxNumLights,
	}, nil
}

// spanPaddingTexels widens each rasterized span so bucket centers at the
// span borders are not missed. Overdraw is harmless: the fragment shader
// reports "no hit" outside the true span and minimum blending discards it.
const spanPaddingTexels = 1.0

// draw rasterizes all of the batch's edges into the given light's shadow-map
// row.
func (p *shadowMapPass) draw(target *ebiten.Image, light Light, lightIndex int, batch *OccluderBatch) {
	p.verts = p.verts[:0]
	p.inds = p.inds[:0]

	for i := 0; i < batch.SegmentCount(); i++ {
		seg := batch.segment(i)
		if !segmentCastsShadow(light, lightIndex, seg) {
			continue
		}
		p.appendSegment(light, lightIndex, seg)
	}

	if len(p.verts) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Uniforms = map[string]any{
		"LightRadius": float32(light.Radius),
	}
	op.Blend = BlendMin.EbitenBlend()
	target.DrawTrianglesShader32(p.verts, p.inds, p.shader, op)
}

// segmentCastsShadow reports whether an edge shadows the given light. Edges
// may name up to two lights they never shadow, and a positive occluder
// height bounds the occluder vertically so lights at or above it pass over.
// Zero height means full-height.
func segmentCastsShadow(light Light, lightIndex int, seg OccluderVertex) bool {
	if lightIndex == seg.IgnoreLight1 || lightIndex == seg.IgnoreLight2 {
		return false
	}
	if seg.Height > 0 && light.Height >= seg.Height {
		return false
	}
	return true
}

// appendSegment emits the angular span quads for one edge as seen from one
// light.
func (p *shadowMapPass) appendSegment(light Light, lightIndex int, seg OccluderVertex) {
	rel0 := seg.LineA.Sub(light.Position)
	rel1 := seg.LineB.Sub(light.Position)

	// Winding relative to the light separates edges facing it from edges
	// facing away; the two are written to separate shadow-map channels.
	front := rel0.Cross(rel1) < 0

	a0 := math.Atan2(rel0.Y, rel0.X)
	a1 := math.Atan2(rel1.Y, rel1.X)

	tags := wraparoundTagAngles(a0, a1)
	spans := [2][2]float64{
		{tags[0], tags[1]},
		{tags[2], tags[3]},
	}
	for _, span := range spans {
		lo, hi := span[0], span[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		p.appendSpanQuad(lo, hi, lightIndex, rel0, rel1, front)
	}
}

// wraparoundTagAngles returns the per-order-tag angle values for an edge
// whose endpoints sit at polar angles a0 and a1 relative to a light. When
// the edge's span crosses the -π/π discontinuity, tags 0 and 3 clamp to the
// -π/π extremes and tags 1 and 2 to the min/max endpoint angles, so the two
// emitted spans cover the wrapped extent without interpolating across the
// discontinuity.
func wraparoundTagAngles(a0, a1 float64) [4]float64 {
	if math.Abs(a0-a1) > math.Pi {
		return [4]float64{-math.Pi, math.Min(a0, a1), math.Max(a0, a1), math.Pi}
	}
	return [4]float64{a0, a1, a0, a1}
}

// appendSpanQuad emits one one-row-tall quad covering the angle span
// [lo, hi] in the given light's row.
func (p *shadowMapPass) appendSpanQuad(lo, hi float64, lightIndex int, rel0, rel1 Vec2, front bool) {
	if hi <= lo {
		return
	}

	w := float64(p.resolution)
	x0 := float32((lo/math.Pi*0.5+0.5)*w - spanPaddingTexels)
	x1 := float32((hi/math.Pi*0.5+0.5)*w + spanPaddingTexels)
	y0 := float32(lightIndex)
	y1 := float32(lightIndex + 1)

	frontFlag := float32(0)
	if front {
		frontFlag = 1
	}

	base := uint32(len(p.verts))
	for _, corner := range [4][2]float32{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		p.verts = append(p.verts, ebiten.Vertex{
			DstX:    corner[0],
			DstY:    corner[1],
			ColorR:  frontFlag,
			ColorG:  1,
			ColorB:  1,
			ColorA:  1,
			Custom0: float32(rel0.X),
			Custom1: float32(rel0.Y),
			Custom2: float32(rel1.X),
			Custom3: float32(rel1.Y),
		})
	}
	p.inds = append(p.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}
