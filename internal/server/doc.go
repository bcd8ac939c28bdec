// Package server implements the MCP (Model Context Protocol) server for lane tracking.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_crop: Extract rectangular region
//
// Single-frame lane stages (stateless):
//   - lane_edge_detect: Edge map of the prepared frame
//   - lane_roi_mask: Edge map restricted to the region of interest
//   - lane_roi_crop: Prepared frame cropped to the region of interest
//   - lane_detect_segments: Segments, their classification and per-side aggregate
//
// Streams:
//   - lane_stream_open: Start a stream with empty histories, returns its id
//   - lane_stream_process: Feed the next frame, returns smoothed lane lines
//   - lane_stream_reset: Clear a stream's histories
//   - lane_stream_close: Drop a stream
//
// # Streams
//
// Each stream owns a tracker.Tracker and therefore its own pair of line histories.
// Frames sent to one stream are processed in arrival order; different streams are
// independent. Streams live until closed or until the server exits.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed tools/call params)
//     or -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
//
// A frame in which no lane is found is not an error.
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
