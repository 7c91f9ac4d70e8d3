// Package imaging provides the image plumbing around room detection:
// decoding uploaded thumbnails and masks, and rendering room overlays for
// export.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Room boundaries arrive as fractions
// of the page size and are mapped to pixels by multiplying with the canvas
// width and height, then rounding. Rectangles are half-open: Min is
// inclusive, Max exclusive.
//
// # Data URLs
//
// Thumbnails travel as "data:<mime>;base64,<payload>" strings. DecodeDataURL
// also accepts bare base64, which is how segmentation services typically
// return mask images.
//
// # Overlays
//
// RenderOverlay copies the page into a mutable RGBA canvas (bild clone),
// composites a translucent fill per room, then draws opaque outlines and a
// small numeric badge. Large pages are scaled down first
// (disintegration/imaging) so exports stay a reasonable size.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package imaging
