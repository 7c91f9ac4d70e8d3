// Package rooms defines the room detection records shared by every detector
// and transport in the sandbox.
//
// A floorplan page is described by a list of Detection values. Each one
// carries a room type key, a display label, a confidence in [0, 1] and a
// NormalizedBoundary whose coordinates are fractions of the page width and
// height:
//
//	(0,0) ------------------ (1,0)
//	  |   x,y +-------+        |
//	  |       |  room | height |
//	  |       +-------+        |
//	  |         width          |
//	(0,1) ------------------ (1,1)
//
// # Room Types
//
// Eight base types make up the fixed palette (Living Room, Kitchen, Bedroom,
// Bathroom, Storage, Mechanical, Workspace, Circulation). Callers may append
// custom TypeDefinition values; the label is the lookup key. Free-text model
// labels are mapped onto the palette with TypeForLabel, and labels that match
// no rule become ad-hoc types that render in a neutral gray.
//
// # Edits
//
// Detections are mutable: ApplyEdit changes type, confidence or boundary and
// marks the detection as manual. A new analysis run replaces the page's list
// wholesale, so manual edits do not survive re-analysis.
package rooms
