// Package lane implements per-frame lane boundary detection for forward-facing road video.
//
// The package consumes a single-channel edge map and a set of raw candidate line
// segments for each frame and produces two stabilized lane boundary lines (left and
// right) drawn onto a copy of the color frame. Edge extraction and line voting are
// performed elsewhere (see the detection package); this package owns the geometry.
//
// # Pipeline
//
// Each frame flows strictly downstream:
//
//  1. RegionMask: suppress edge pixels outside a trapezoidal region of interest
//  2. Classify: convert segments to slope/intercept pairs, drop near-vertical and
//     near-horizontal candidates, split by slope sign into left and right buckets
//  3. Aggregate: average each bucket and project it to endpoints spanning the ROI band
//  4. TemporalSmoother: push detections into a bounded history per side and return
//     the mean of the retained history
//  5. FramePipeline: draw each smoothed line onto a copy of the color frame
//
// # Coordinate System
//
// Image coordinates with the origin at the top-left and Y increasing downward. In this
// convention the left lane boundary has a negative slope and the right boundary a
// positive slope.
//
// # State
//
// TemporalSmoother is the only cross-frame state. A FramePipeline owns exactly one
// smoother and must receive frames in temporal order from a single goroutine at a time.
package lane
