package lantern

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// The pipeline's shaders are written in Kage. Kage has no vertex stage and
// no texture LOD selection, so the vertex-heavy work happens on the CPU
// (shadowmap.go, lightarea.go) and cone tracing samples pre-blurred buffers
// instead of mip levels. All shaders use pixel units so source images of
// different sizes can be mixed in one draw.

const shadowMapShaderSrc = `//kage:unit pixels

package main

var LightRadius float

const pi = 3.14159265358979

// raySegmentDist returns the normalized hit distance of a ray from the
// light along dir against the segment p-q, or 1 when there is no hit
// within the light radius. dir has length LightRadius, so the Cramer
// solution's ray parameter is already normalized.
func raySegmentDist(dir, p, q vec2) float {
	det := dir.x*(p.y-q.y) + dir.y*(q.x-p.x)
	if abs(det) < 0.0000001 {
		return 1.0
	}
	s := ((p.y-q.y)*p.x + (q.x-p.x)*p.y) / det
	t := (dir.x*p.y - dir.y*p.x) / det
	if s < 0.0 || s > 1.0 || t < 0.0 || t > 1.0 {
		return 1.0
	}
	return s
}

func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {
	pos := dstPos.xy - imageDstOrigin()
	angle := (pos.x/imageDstSize().x)*2.0*pi - pi
	dir := vec2(cos(angle), sin(angle)) * LightRadius
	d := raySegmentDist(dir, custom.xy, custom.zw)
	if color.r > 0.5 {
		return vec4(d, 1.0, 1.0, 1.0)
	}
	return vec4(1.0, d, 1.0, 1.0)
}
`

const geometryColorAlbedoSrc = `//kage:unit pixels

package main

var AmbientScale float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return vec4(pow(color.rgb, vec3(2.2)), AmbientScale)
}
`

const geometryColorNormalSrc = `//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return vec4(0.5, 0.5, 1.0, 1.0)
}
`

const geometryColorOcclusionSrc = `//kage:unit pixels

package main

var Occlusion float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return vec4(Occlusion, 0.0, 0.0, 1.0)
}
`

const geometrySpriteAlbedoSrc = `//kage:unit pixels

package main

var AmbientScale float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	smp := imageSrc0At(srcPos)
	if smp.a < 0.5 {
		discard()
	}
	rgb := smp.rgb / max(smp.a, 0.001)
	return vec4(pow(rgb, vec3(2.2)), AmbientScale)
}
`

const geometrySpriteNormalFlatSrc = `//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	if imageSrc0At(srcPos).a < 0.5 {
		discard()
	}
	return vec4(0.5, 0.5, 1.0, 1.0)
}
`

const geometrySpriteNormalMapSrc = `//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	if imageSrc0At(srcPos).a < 0.5 {
		discard()
	}
	n := imageSrc1At(srcPos - imageSrc0Origin() + imageSrc1Origin())
	return vec4(n.rgb, 1.0)
}
`

const geometrySpriteOcclusionSrc = `//kage:unit pixels

package main

var Occlusion float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	if imageSrc0At(srcPos).a < 0.5 {
		discard()
	}
	return vec4(Occlusion, 0.0, 0.0, 1.0)
}
`

// screenLightShaderSrc shades one light's fan over the screen. Image 0 is
// the shadow map, image 1 the normals buffer. The result is accumulated
// with additive blending.
const screenLightShaderSrc = `//kage:unit pixels

package main

var LightPos vec2
var LightRadius float
var LightHeight float
var LightColor vec4
var LightAngle float
var LightAngleSize float
var FalloffStart float
var BackGlow float
var LightRow float
var AngleFalloffSize float

const pi = 3.14159265358979

func shadowAt(x float) vec2 {
	// the angle axis is periodic: the first and last columns are adjacent,
	// so neighbor taps wrap around rather than sampling outside the row
	wx := mod(x, imageSrc0Size().x)
	return imageSrc0At(vec2(wx, LightRow+0.5) + imageSrc0Origin()).rg
}

func angularFalloff(angle float) float {
	if abs(LightAngleSize-2.0*pi) < 0.001 {
		return 1.0
	}
	diff := mod(abs(angle-LightAngle), 2.0*pi)
	if diff > pi {
		diff = 2.0*pi - diff
	}
	toBorder := diff*2.0 - LightAngleSize + AngleFalloffSize
	if toBorder <= 0.0 {
		return 1.0
	}
	return 2.0 / (1.0 + exp(10.0*toBorder/AngleFalloffSize))
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	pos := dstPos.xy - imageDstOrigin()
	delta := pos - LightPos
	dist := length(delta)
	d := dist / LightRadius
	if d >= 1.0 {
		return vec4(0.0)
	}

	angle := atan2(delta.y, delta.x)
	x := (angle/(2.0*pi) + 0.5) * imageSrc0Size().x
	shadow := min(shadowAt(x), min(shadowAt(x-1.0), shadowAt(x+1.0)))

	fallT := 1.0
	if FalloffStart > 0.0 {
		fallT = clamp(dist/FalloffStart-1.0, 0.0, 1.0)
	}
	fallOn := (1.0 + sin(pi*(1.5+fallT))) / 2.0
	front := fallOn * (1.0 - d) * (1.0 - d)

	litFront := 1.0 - step(shadow.x, d)
	litBack := 1.0 - step(shadow.y, d)
	glow := clamp((d-shadow.x)*LightRadius/max(BackGlow, 0.0001), 0.0, 1.0)
	inner := front * pow(1.0-glow, 4.0)
	combined := litFront*front + (1.0-litFront)*litBack*inner

	n := imageSrc1At(pos + imageSrc1Origin()).rgb
	normScale := 1.0
	if n.r+n.g+n.b > 0.0 {
		dir3 := normalize(vec3(-delta.x, -delta.y, LightHeight))
		normScale = max(dot(dir3, normalize(n*2.0-1.0)), 0.0)
	}

	return LightColor * combined * angularFalloff(angle) * normScale
}
`

// indirectShaderSrc cone-traces bounced light across the screen. Image 0 is
// the normals buffer, image 1 the blurred occlusion buffer, image 2 the
// blurred reflector buffer (lit albedo). Cone and step counts are baked in
// at compile time.
const indirectShaderSrc = `//kage:unit pixels

package main

var IndirectStart float
var IndirectStepFactor float
var IndirectColorScale float
var IndirectZ float

const pi = 3.14159265358979
const numCones = {numCones}
const numSteps = {numSteps}

func occlusionAt(p vec2) float {
	return imageSrc1At(p + imageSrc1Origin()).r
}

func reflectorAt(p vec2) vec3 {
	return imageSrc2At(p + imageSrc2Origin()).rgb
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	pos := srcPos - imageSrc0Origin()
	n := imageSrc0At(srcPos).rgb

	coneAngle := 2.0 * pi / float(numCones)
	diameterScale := 2.0 * tan(coneAngle/2.0)
	sum := vec3(0.0)
	for i := 0; i < numCones; i++ {
		a := coneAngle * float(i)
		dir := vec2(cos(a), sin(a))

		weight := 1.0
		if n.r+n.g+n.b > 0.0 {
			weight = max(dot(normalize(vec3(dir.x, dir.y, IndirectZ)), normalize(n*2.0-1.0)), 0.0)
		}
		if weight > 0.0 {
			occ := 0.0
			col := vec3(0.0)
			t := IndirectStart
			for j := 0; j < numSteps; j++ {
				if occ > 0.9 {
					break
				}
				p := pos + dir*t
				col += (1.0 - occ) * reflectorAt(p) * IndirectColorScale
				occ += (1.0 - occ) * occlusionAt(p)
				t += IndirectStepFactor*t*diameterScale + 1.0
			}
			sum += col * weight
		}
	}
	return vec4(sum/float(numCones), 1.0)
}
`

const composeShaderSrc = `//kage:unit pixels

package main

var Ambient vec3
var Gamma float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	alb := imageSrc0At(srcPos)
	light := imageSrc1At(srcPos - imageSrc0Origin() + imageSrc1Origin()).rgb
	diffuse := alb.rgb * (light + alb.a*Ambient)
	mapped := diffuse / (diffuse + 1.0)
	return vec4(pow(mapped, vec3(1.0/Gamma)), 1.0)
}
`

const composeWithIndirectShaderSrc = `//kage:unit pixels

package main

var Ambient vec3
var Gamma float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	alb := imageSrc0At(srcPos)
	base := srcPos - imageSrc0Origin()
	light := imageSrc1At(base + imageSrc1Origin()).rgb
	indirect := imageSrc2At(base + imageSrc2Origin()).rgb
	diffuse := alb.rgb * (light + indirect + alb.a*Ambient)
	mapped := diffuse / (diffuse + 1.0)
	return vec4(pow(mapped, vec3(1.0/Gamma)), 1.0)
}
`

// reflectorShaderSrc builds the cone-tracing source buffer: the lit albedo
// with the occlusion mask in alpha. Image 0 is albedo, image 1 screen light,
// image 2 occlusion.
const reflectorShaderSrc = `//kage:unit pixels

package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	alb := imageSrc0At(srcPos)
	base := srcPos - imageSrc0Origin()
	light := imageSrc1At(base + imageSrc1Origin()).rgb
	occ := imageSrc2At(base + imageSrc2Origin()).r
	return vec4(alb.rgb*light*occ, 1.0)
}
`

func compileShader(name, src string) (*ebiten.Shader, error) {
	shader, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("lantern: compiling %s shader: %w", name, err)
	}
	return shader, nil
}

func compileShadowMapShader() (*ebiten.Shader, error) {
	return compileShader("shadow map", shadowMapShaderSrc)
}

// compileIndirectShader bakes the cone and step counts into the shader
// source. Kage loop bounds must be constants.
func compileIndirectShader(numCones, numSteps int) (*ebiten.Shader, error) {
	src := strings.NewReplacer(
		"{numCones}", fmt.Sprint(numCones),
		"{numSteps}", fmt.Sprint(numSteps),
	).Replace(indirectShaderSrc)
	return compileShader("indirect", src)
}
