// Package detection turns frames into the raw inputs of the lane pipeline.
//
// An Extractor produces a binary edge map for a color frame and the line
// segments contained in a (usually region-masked) edge map. Two backends exist:
//
//   - native: pure Go. Edges come from imaging.EdgeMap, segments from
//     DetectSegments, a Hough voting transform with gap splitting.
//   - gocv: OpenCV through gocv. Only available when built with -tags gocv.
//
// # Coordinate System
//
// Segment endpoints use the image convention with the origin at the top-left
// corner of the edge map, X increasing rightward and Y increasing downward.
//
// # Determinism
//
// DetectSegments is deterministic for a given edge map and parameter set. Peaks
// are visited strongest first and pixels claimed by an accepted segment cannot
// support another one.
package detection
