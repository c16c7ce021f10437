package lantern

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// ColorVertex is one corner of a flat-colored triangle submitted to the
// geometry phase.
type ColorVertex struct {
	Position Vec2
	Color    Color
}

// SpriteVertex is one corner of a textured triangle submitted to the
// geometry phase. Tex is in texels of the source image.
type SpriteVertex struct {
	Position Vec2
	Tex      Vec2
}

type geometryKind int

const (
	geometryColor geometryKind = iota
	geometrySprite
	geometrySpriteNormals
)

// geometryCommand is one recorded geometry draw. Ebitengine has no multiple
// render targets, so the geometry phase records commands and replays each
// one once per screen buffer with a target-specific shader.
type geometryCommand struct {
	kind     geometryKind
	verts    []ebiten.Vertex
	inds     []uint32
	texture  *ebiten.Image
	normals  *ebiten.Image
	params   ObjectLightParams
	z        float64
	sequence int
}

// geometryBatch accumulates geometry commands for one frame. There is no
// depth buffer, so commands are painter-sorted by Z before replay; equal Z
// keeps submission order.
type geometryBatch struct {
	commands []geometryCommand
	sorted   bool
}

func (b *geometryBatch) reset() {
	b.commands = b.commands[:0]
	b.sorted = false
}

func (b *geometryBatch) push(cmd geometryCommand) {
	cmd.sequence = len(b.commands)
	b.commands = append(b.commands, cmd)
	b.sorted = false
}

// ordered returns the commands in draw order, lowest Z first.
func (b *geometryBatch) ordered() []geometryCommand {
	if !b.sorted {
		sort.SliceStable(b.commands, func(i, j int) bool {
			if b.commands[i].z != b.commands[j].z {
				return b.commands[i].z < b.commands[j].z
			}
			return b.commands[i].sequence < b.commands[j].sequence
		})
		b.sorted = true
	}
	return b.commands
}

func (b *geometryBatch) pushColors(verts []ColorVertex, inds []uint32, z float64, params ObjectLightParams) {
	if len(verts) == 0 || len(inds) == 0 {
		return
	}
	ev := make([]ebiten.Vertex, len(verts))
	for i, v := range verts {
		ev[i] = ebiten.Vertex{
			DstX:   float32(v.Position.X),
			DstY:   float32(v.Position.Y),
			ColorR: float32(v.Color.R),
			ColorG: float32(v.Color.G),
			ColorB: float32(v.Color.B),
			ColorA: float32(v.Color.A),
		}
	}
	b.push(geometryCommand{
		kind:   geometryColor,
		verts:  ev,
		inds:   append([]uint32(nil), inds...),
		params: params,
		z:      z,
	})
}

func (b *geometryBatch) pushSprites(texture, normals *ebiten.Image, verts []SpriteVertex, inds []uint32, z float64, params ObjectLightParams) {
	if len(verts) == 0 || len(inds) == 0 {
		return
	}
	kind := geometrySprite
	if normals != nil {
		kind = geometrySpriteNormals
	}
	ev := make([]ebiten.Vertex, len(verts))
	for i, v := range verts {
		ev[i] = ebiten.Vertex{
			DstX:   float32(v.Position.X),
			DstY:   float32(v.Position.Y),
			SrcX:   float32(v.Tex.X),
			SrcY:   float32(v.Tex.Y),
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}
	b.push(geometryCommand{
		kind:    kind,
		verts:   ev,
		inds:    append([]uint32(nil), inds...),
		texture: texture,
		normals: normals,
		params:  params,
		z:       z,
	})
}

// QuadVertices lays out four sprite vertices for the axis-aligned rectangle
// dst sampling the whole of src.
func QuadVertices(dst Rect, src *ebiten.Image) []SpriteVertex {
	bounds := src.Bounds()
	sx0 := float64(bounds.Min.X)
	sy0 := float64(bounds.Min.Y)
	sx1 := float64(bounds.Max.X)
	sy1 := float64(bounds.Max.Y)
	return []SpriteVertex{
		{Position: Vec2{dst.X, dst.Y}, Tex: Vec2{sx0, sy0}},
		{Position: Vec2{dst.X + dst.Width, dst.Y}, Tex: Vec2{sx1, sy0}},
		{Position: Vec2{dst.X + dst.Width, dst.Y + dst.Height}, Tex: Vec2{sx1, sy1}},
		{Position: Vec2{dst.X, dst.Y + dst.Height}, Tex: Vec2{sx0, sy1}},
	}
}

// QuadIndices is the index layout matching QuadVertices.
func QuadIndices() []uint32 {
	return []uint32{0, 1, 2, 0, 2, 3}
}
