package lantern

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// gBuffer holds the per-frame geometry buffers. Ebitengine cannot write
// several render targets from one draw, so the recorded geometry commands
// are replayed once per buffer with a target-specific shader:
//
//	albedo    - linearized surface color, ambient scale in alpha
//	normals   - tangent-space normal map encoding; zero means unlit flat
//	occlusion - indirect-light blocker mask in the red channel
type gBuffer struct {
	albedo    *RenderTexture
	normals   *RenderTexture
	occlusion *RenderTexture

	colorAlbedo      *ebiten.Shader
	colorNormal      *ebiten.Shader
	colorOcclusion   *ebiten.Shader
	spriteAlbedo     *ebiten.Shader
	spriteNormalFlat *ebiten.Shader
	spriteNormalMap  *ebiten.Shader
	spriteOcclusion  *ebiten.Shader

	scratch []ebiten.Vertex
}

func newGBuffer() (*gBuffer, error) {
	g := &gBuffer{}
	for _, s := range []struct {
		name string
		src  string
		dst  **ebiten.Shader
	}{
		{"color albedo", geometryColorAlbedoSrc, &g.colorAlbedo},
		{"color normal", geometryColorNormalSrc, &g.colorNormal},
		{"color occlusion", geometryColorOcclusionSrc, &g.colorOcclusion},
		{"sprite albedo", geometrySpriteAlbedoSrc, &g.spriteAlbedo},
		{"sprite normal", geometrySpriteNormalFlatSrc, &g.spriteNormalFlat},
		{"sprite normal map", geometrySpriteNormalMapSrc, &g.spriteNormalMap},
		{"sprite occlusion", geometrySpriteOcclusionSrc, &g.spriteOcclusion},
	} {
		shader, err := compileShader(s.name, s.src)
		if err != nil {
			return nil, err
		}
		*s.dst = shader
	}
	g.albedo = NewRenderTexture(1, 1)
	g.normals = NewRenderTexture(1, 1)
	g.occlusion = NewRenderTexture(1, 1)
	return g, nil
}

func (g *gBuffer) ensureSize(w, h int) {
	g.albedo.ensureSize(w, h)
	g.normals.ensureSize(w, h)
	g.occlusion.ensureSize(w, h)
}

func (g *gBuffer) clear() {
	g.albedo.Clear()
	g.normals.Clear()
	g.occlusion.Clear()
}

// replay draws the batch's commands into all three buffers, painter-sorted,
// with the camera offset applied.
func (g *gBuffer) replay(batch *geometryBatch, camera Vec2) {
	for _, cmd := range batch.ordered() {
		g.scratch = g.scratch[:0]
		for _, v := range cmd.verts {
			v.DstX -= float32(camera.X)
			v.DstY -= float32(camera.Y)
			g.scratch = append(g.scratch, v)
		}
		switch cmd.kind {
		case geometryColor:
			g.drawColor(cmd)
		case geometrySprite:
			g.drawSprite(cmd, g.spriteNormalFlat, nil)
		case geometrySpriteNormals:
			g.drawSprite(cmd, g.spriteNormalMap, cmd.normals)
		}
	}
}

func (g *gBuffer) drawColor(cmd geometryCommand) {
	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Blend = ebiten.BlendCopy

	op.Uniforms = map[string]any{"AmbientScale": float32(cmd.params.AmbientScale)}
	g.albedo.Image().DrawTrianglesShader32(g.scratch, cmd.inds, g.colorAlbedo, op)

	op = &ebiten.DrawTrianglesShaderOptions{}
	op.Blend = ebiten.BlendCopy
	g.normals.Image().DrawTrianglesShader32(g.scratch, cmd.inds, g.colorNormal, op)

	op = &ebiten.DrawTrianglesShaderOptions{}
	op.Blend = ebiten.BlendCopy
	op.Uniforms = map[string]any{"Occlusion": float32(cmd.params.Occlusion)}
	g.occlusion.Image().DrawTrianglesShader32(g.scratch, cmd.inds, g.colorOcclusion, op)
}

func (g *gBuffer) drawSprite(cmd geometryCommand, normalShader *ebiten.Shader, normalTexture *ebiten.Image) {
	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Blend = ebiten.BlendCopy
	op.Images[0] = cmd.texture
	op.Uniforms = map[string]any{"AmbientScale": float32(cmd.params.AmbientScale)}
	g.albedo.Image().DrawTrianglesShader32(g.scratch, cmd.inds, g.spriteAlbedo, op)

	op = &ebiten.DrawTrianglesShaderOptions{}
	op.Blend = ebiten.BlendCopy
	op.Images[0] = cmd.texture
	op.Images[1] = normalTexture
	g.normals.Image().DrawTrianglesShader32(g.scratch, cmd.inds, normalShader, op)

	op = &ebiten.DrawTrianglesShaderOptions{}
	op.Blend = ebiten.BlendCopy
	op.Images[0] = cmd.texture
	op.Uniforms = map[string]any{"Occlusion": float32(cmd.params.Occlusion)}
	g.occlusion.Image().DrawTrianglesShader32(g.scratch, cmd.inds, g.spriteOcclusion, op)
}
