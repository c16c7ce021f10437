package lantern

import "fmt"

// IgnoreNone marks an unused ignore-light slot on an occluder vertex.
const IgnoreNone = -1

// OccluderVertex is one order-tagged copy of a directed occluder edge.
// Every logical edge is encoded as four copies with order tags 0..3; the
// shadow caster uses the tags to pick angle endpoints that survive the
// -π/π wraparound of the polar parameterization (tags 0 and 3 emit the
// -π/π extremes, tags 1 and 2 the min/max endpoint angles).
type OccluderVertex struct {
	// LineA and LineB are the edge endpoints. Odd order tags store the edge
	// reversed.
	LineA, LineB Vec2
	// Order is the wraparound-handling tag in 0..3.
	Order int
	// Height is the occluder's out-of-plane extent. Lights at or above this
	// height are not shadowed by the edge.
	Height float64
	// IgnoreLight1 and IgnoreLight2 are frame light indices this edge never
	// shadows, or IgnoreNone.
	IgnoreLight1, IgnoreLight2 int
}

// OccluderShape is a shape that can encode itself into an OccluderBatch.
type OccluderShape interface {
	AppendTo(b *OccluderBatch)
}

// OccluderLine is a single occluding segment.
type OccluderLine struct {
	Line   Line
	Height float64
	// IgnoreLights lists up to two frame light indices that this shape does
	// not shadow (so a lamp's body does not shadow its own light).
	IgnoreLights []int
}

// AppendTo encodes the segment into the batch.
func (o OccluderLine) AppendTo(b *OccluderBatch) {
	i1, i2 := splitIgnores(o.IgnoreLights)
	b.pushSegment(o.Line, o.Height, i1, i2)
}

// OccluderRect is an axis-aligned rectangular occluder.
type OccluderRect struct {
	Rect         Rect
	Height       float64
	IgnoreLights []int
}

// AppendTo encodes the rectangle's four edges into the batch.
func (o OccluderRect) AppendTo(b *OccluderBatch) {
	i1, i2 := splitIgnores(o.IgnoreLights)
	for _, line := range o.Rect.Lines() {
		b.pushSegment(line, o.Height, i1, i2)
	}
}

// OccluderRotatedRect is a rotated rectangular occluder.
type OccluderRotatedRect struct {
	Rect         RotatedRect
	Height       float64
	IgnoreLights []int
}

// AppendTo encodes the rectangle's four edges into the batch.
func (o OccluderRotatedRect) AppendTo(b *OccluderBatch) {
	i1, i2 := splitIgnores(o.IgnoreLights)
	for _, line := range o.Rect.Lines() {
		b.pushSegment(line, o.Height, i1, i2)
	}
}

// OccluderCircle is a circular occluder approximated by NumSegments edges.
type OccluderCircle struct {
	Circle Circle
	// StartAngle rotates the polygon approximation.
	StartAngle float64
	// NumSegments is the number of edges. Zero defaults to 16.
	NumSegments  int
	Height       float64
	IgnoreLights []int
}

// AppendTo encodes the circle's polygon edges into the batch.
func (o OccluderCircle) AppendTo(b *OccluderBatch) {
	n := o.NumSegments
	if n <= 0 {
		n = 16
	}
	i1, i2 := splitIgnores(o.IgnoreLights)
	points := o.Circle.Points(o.StartAngle, n)
	for i := range points {
		b.pushSegment(Line{points[i], points[(i+1)%n]}, o.Height, i1, i2)
	}
}

// OccluderBatch accumulates occluder edges for one frame. It is rebuilt each
// frame by the caller and consumed by the pipeline's shadow phase.
type OccluderBatch struct {
	vertices []OccluderVertex
	indices  []uint32
}

// NewOccluderBatch creates an empty occluder batch.
func NewOccluderBatch() *OccluderBatch {
	return &OccluderBatch{}
}

// Push encodes a shape into the batch.
func (b *OccluderBatch) Push(shape OccluderShape) {
	shape.AppendTo(b)
}

// pushSegment writes the four order-tagged copies of one edge plus their
// element indices. Odd orders store the edge reversed, matching the angle
// the shadow caster reads from each copy.
func (b *OccluderBatch) pushSegment(line Line, height float64, ignore1, ignore2 int) {
	start := uint32(len(b.vertices))
	b.indices = append(b.indices, start, start+1, start+2, start+3)

	for order := 0; order < 4; order++ {
		v := OccluderVertex{
			LineA:        line.A,
			LineB:        line.B,
			Order:        order,
			Height:       height,
			IgnoreLight1: ignore1,
			IgnoreLight2: ignore2,
		}
		if order%2 == 1 {
			v.LineA, v.LineB = line.B, line.A
		}
		b.vertices = append(b.vertices, v)
	}
}

// SegmentCount returns the number of encoded edges.
func (b *OccluderBatch) SegmentCount() int {
	return len(b.vertices) / 4
}

// Vertices returns the encoded vertices. The slice is valid until the next
// Push or Clear.
func (b *OccluderBatch) Vertices() []OccluderVertex {
	return b.vertices
}

// Indices returns the element indices matching Vertices.
func (b *OccluderBatch) Indices() []uint32 {
	return b.indices
}

// segment returns the i-th edge in its original direction, with its shadow
// metadata.
func (b *OccluderBatch) segment(i int) OccluderVertex {
	return b.vertices[i*4]
}

// Clear empties the batch for the next frame.
func (b *OccluderBatch) Clear() {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

// splitIgnores validates and unpacks the shape-level ignore list into the
// two per-vertex slots.
func splitIgnores(ignore []int) (int, int) {
	switch len(ignore) {
	case 0:
		return IgnoreNone, IgnoreNone
	case 1:
		return ignore[0], IgnoreNone
	case 2:
		return ignore[0], ignore[1]
	default:
		panic(fmt.Sprintf("lantern: occluder shapes support at most 2 ignored lights, got %d", len(ignore)))
	}
}
