package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the frame image file",
}

var streamIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Stream id returned by lane_stream_open",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an unprepared image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Single-frame lane stages
		{
			Name:        "lane_edge_detect",
			Description: "Resize and contrast-boost a frame, then return its Canny edge map as base64-encoded PNG with the number of edge pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Hysteresis low threshold (0-255). Defaults to the server config.",
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Hysteresis high threshold (0-255). Defaults to the server config.",
					},
					"blur_radius": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur radius applied before gradients. 0 disables blurring.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "lane_roi_mask",
			Description: "Return the frame's edge map restricted to the trapezoidal region of interest, plus the polygon vertices (bottom-left, bottom-right, top-right, top-left).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "lane_roi_crop",
			Description: "Crop the prepared frame to the rectangle enclosing the region of interest and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "lane_detect_segments",
			Description: "Detect line segments inside the region of interest of a single frame, classify each as left, right or discarded, and aggregate each side into one lane line without temporal smoothing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum Hough votes. Defaults to the server config.",
					},
					"min_line_length": map[string]interface{}{
						"type":        "integer",
						"description": "Shortest segment kept, in pixels.",
					},
					"max_line_gap": map[string]interface{}{
						"type":        "integer",
						"description": "Largest gap bridged within one segment, in pixels.",
					},
				},
				"required": []string{"path"},
			},
		},

		// Streams
		{
			Name:        "lane_stream_open",
			Description: "Open a lane tracking stream with its own left and right line histories. Returns the stream id.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"history_size": map[string]interface{}{
						"type":        "integer",
						"description": "Frames averaged per side. Defaults to the server config (5).",
					},
				},
			},
		},
		{
			Name:        "lane_stream_process",
			Description: "Process the next frame of a stream. Returns the smoothed left and right lane lines, this frame's raw detections and lane metrics. Sides with no detection fall back to their history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"stream_id": streamIDProperty,
					"path":      pathProperty,
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the annotated frame as base64-encoded PNG. Default false",
						"default":     false,
					},
				},
				"required": []string{"stream_id", "path"},
			},
		},
		{
			Name:        "lane_stream_reset",
			Description: "Clear a stream's line histories and frame counter, e.g. after a scene cut.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"stream_id": streamIDProperty,
				},
				"required": []string{"stream_id"},
			},
		},
		{
			Name:        "lane_stream_close",
			Description: "Close a stream and release its state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"stream_id": streamIDProperty,
				},
				"required": []string{"stream_id"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
