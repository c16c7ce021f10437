// Package lantern is a dynamic 2D lighting and shadow toolkit for [Ebitengine].
//
// Lantern computes per-frame illumination for an arbitrary set of point and
// cone lights against dynamically built occluder geometry. Shadows come from
// a polar-coordinate depth map: every light owns one row of a shared
// shadow-map texture, and every occluder edge is rasterized into that row
// with minimum blending so that the nearest occluder per angle bucket
// survives.
//
// # Pipeline
//
// A frame walks a fixed sequence of phases:
//
//	pipeline, err := lantern.NewLightPipeline(cfg)
//	// ...
//	occluders := lantern.NewOccluderBatch()
//	occluders.Push(lantern.OccluderRect{Rect: wall})
//
//	pipeline.BeginShadowPhase(lights)
//	pipeline.DrawOccluders(occluders)
//	pipeline.FinishShadowPhase()
//	pipeline.BeginGeometryPhase(w, h, camera)
//	pipeline.DrawColors(verts, inds, z, objectParams)
//	pipeline.BuildScreenLight(globalParams)
//	pipeline.Compose(nil)
//
//	screen.DrawImage(pipeline.Result(), nil)
//
// Calling a phase method out of order is a programmer error and panics.
//
// # Occluders
//
// Shapes that block light ([OccluderLine], [OccluderRect],
// [OccluderRotatedRect], and [OccluderCircle]) are pushed into an
// [OccluderBatch]. A shape may name up to two lights that it never shadows,
// so a lamp's own body does not extinguish the lamp.
//
// # Configuration
//
// Shadow-map resolution, the light capacity, and the indirect-lighting
// quality knobs are baked into textures and shader sources when the
// pipeline is built; changing them requires a new pipeline. See [Config].
//
// [Ebitengine]: https://ebitengine.org
package lantern
