// Package detection finds enclosed room regions on a rendered floorplan.
//
// Floorplans draw walls as dark strokes on a light background, so rooms show
// up as light areas fully surrounded by wall pixels. FindRegions works in
// three steps:
//
//  1. Wall mask: pixels whose BT.601 luminance is below a threshold are
//     walls. The mask is dilated by a few pixels to close door gaps and
//     anti-aliasing holes.
//  2. Components: the remaining floor pixels are grouped into 4-connected
//     components with an iterative flood fill.
//  3. Filtering: components touching the image border are the exterior and
//     are dropped, as are components smaller than a fraction of the page.
//
// Each region carries its pixel bounds and a fill score, the share of its
// bounding box that the region covers. Rectangular rooms score close to 1.0;
// L-shaped rooms and corridors score lower.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
package detection
