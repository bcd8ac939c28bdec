// Package imaging provides the frame-level image operations around lane detection.
//
// This package loads and caches frames, prepares them for detection (resize and
// contrast boost), extracts Canny-style edge maps, crops the lane region of interest,
// stacks debug panels and serializes images for transport. All operations work with
// standard Go image.Image types in a coordinate system where (0,0) is the top-left
// corner, X increases rightward and Y increases downward.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are stateless and
// never modify their inputs.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Empty images or non-positive target sizes
//   - Regions outside image bounds
//   - Invalid edge thresholds or color strings
//   - File I/O errors during loading and encoding errors during output
package imaging
