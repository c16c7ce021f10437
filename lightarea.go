package lantern

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const lightFanSegments = 16

// fullCircleEpsilon decides when a light's angular size counts as a full
// circle, both here and in the screen-light shader.
const fullCircleEpsilon = 0.001

// lightFanVertices builds the triangle fan covering a light's reach on
// screen: a center vertex at the light position and a rim following the
// light's angular extent. Rim vertices sit slightly outside the radius so
// the polygon circumscribes the lit circle rather than inscribing it. The
// screen-light shader derives everything else from the fragment position,
// so the vertices carry positions only.
func lightFanVertices(light Light, camera Vec2) ([]ebiten.Vertex, []uint32) {
	fullCircle := math.Abs(light.AngleSize-2*math.Pi) < fullCircleEpsilon

	angleSize := light.AngleSize
	if fullCircle {
		angleSize = 2 * math.Pi
	}
	segmentAngle := angleSize / lightFanSegments
	// circumscribe the arc
	rimRadius := light.Radius / math.Cos(segmentAngle/2)

	center := light.Position.Sub(camera)

	verts := make([]ebiten.Vertex, 0, lightFanSegments+2)
	verts = append(verts, fanVertex(center))

	start := light.Angle - angleSize/2
	rimCount := lightFanSegments + 1
	if fullCircle {
		// the last rim vertex would coincide with the first; close the fan
		// by index instead
		rimCount = lightFanSegments
	}
	for i := 0; i < rimCount; i++ {
		a := start + segmentAngle*float64(i)
		verts = append(verts, fanVertex(Vec2{
			X: center.X + math.Cos(a)*rimRadius,
			Y: center.Y + math.Sin(a)*rimRadius,
		}))
	}

	inds := make([]uint32, 0, lightFanSegments*3)
	for i := 0; i < lightFanSegments; i++ {
		next := uint32(i + 2)
		if fullCircle && i == lightFanSegments-1 {
			next = 1
		}
		inds = append(inds, 0, uint32(i+1), next)
	}
	return verts, inds
}

func fanVertex(pos Vec2) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(pos.X),
		DstY:   float32(pos.Y),
		ColorR: 1,
		ColorG: 1,
		ColorB: 1,
		ColorA: 1,
	}
}
