package server

import (
	"encoding/json"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/lane-tracker-mcp/internal/detection"
	"github.com/ironsheep/lane-tracker-mcp/internal/imaging"
	"github.com/ironsheep/lane-tracker-mcp/internal/lane"
	"github.com/ironsheep/lane-tracker-mcp/internal/tracker"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "lane_stream_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Stateless tools prepare the frame the same way a stream does (resize and
// contrast from the server config) so their output matches what a stream sees.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Single-frame lane stages
	case "lane_edge_detect":
		return s.handleLaneEdgeDetect(args)
	case "lane_roi_mask":
		return s.handleLaneROIMask(args)
	case "lane_roi_crop":
		return s.handleLaneROICrop(args)
	case "lane_detect_segments":
		return s.handleLaneDetectSegments(args)

	// Streams
	case "lane_stream_open":
		return s.handleLaneStreamOpen(args)
	case "lane_stream_process":
		return s.handleLaneStreamProcess(args)
	case "lane_stream_reset":
		return s.handleLaneStreamReset(args)
	case "lane_stream_close":
		return s.handleLaneStreamClose(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// loadFrame reads path through the cache and prepares it like a stream frame.
func (s *Server) loadFrame(path string) (image.Image, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.PrepareFrame(img, s.cfg.Frame.Width, s.cfg.Frame.Height, s.cfg.Frame.Alpha, s.cfg.Frame.Beta)
}

func (s *Server) extractor() (detection.Extractor, error) {
	return detection.NewExtractor(s.cfg.Backend, s.cfg.EdgeParams(), s.cfg.HoughParams())
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// === Single-frame Lane Handlers ===

type laneEdgeDetectArgs struct {
	Path          string   `json:"path"`
	ThresholdLow  int      `json:"threshold_low"`
	ThresholdHigh int      `json:"threshold_high"`
	BlurRadius    *float64 `json:"blur_radius"`
}

// EdgeDetectResult is an edge map with its density.
type EdgeDetectResult struct {
	imaging.EncodedImage
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleLaneEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a laneEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	edge := s.cfg.EdgeParams()
	if a.ThresholdLow != 0 {
		edge.Low = a.ThresholdLow
	}
	if a.ThresholdHigh != 0 {
		edge.High = a.ThresholdHigh
	}
	if a.BlurRadius != nil {
		edge.BlurRadius = *a.BlurRadius
	}

	frame, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	ext, err := detection.NewExtractor(s.cfg.Backend, edge, s.cfg.HoughParams())
	if err != nil {
		return nil, err
	}
	edges, err := ext.Edges(frame)
	if err != nil {
		return nil, err
	}
	return encodeEdges(edges)
}

type laneROIMaskArgs struct {
	Path string `json:"path"`
}

// ROIMaskResult is the region-masked edge map and the polygon that produced it.
type ROIMaskResult struct {
	EdgeDetectResult
	Polygon lane.ROIPolygon `json:"polygon"`
}

func (s *Server) handleLaneROIMask(args json.RawMessage) (interface{}, error) {
	var a laneROIMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	ext, err := s.extractor()
	if err != nil {
		return nil, err
	}
	edges, err := ext.Edges(frame)
	if err != nil {
		return nil, err
	}
	masked, err := lane.MaskRegion(edges)
	if err != nil {
		return nil, err
	}
	encoded, err := encodeEdges(masked)
	if err != nil {
		return nil, err
	}
	b := masked.Bounds()
	return &ROIMaskResult{
		EdgeDetectResult: *encoded,
		Polygon:          lane.NewROIPolygon(b.Dx(), b.Dy()),
	}, nil
}

type laneROICropArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleLaneROICrop(args json.RawMessage) (interface{}, error) {
	var a laneROICropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	frame, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	b := frame.Bounds()
	roi := lane.ROIBounds(b.Dx(), b.Dy()).Add(b.Min)
	return imaging.Crop(frame, roi.Min.X, roi.Min.Y, roi.Max.X, roi.Max.Y, a.Scale)
}

type laneDetectSegmentsArgs struct {
	Path          string `json:"path"`
	Threshold     int    `json:"threshold"`
	MinLineLength *int   `json:"min_line_length"`
	MaxLineGap    *int   `json:"max_line_gap"`
}

// SegmentInfo is a detected segment with its classification.
type SegmentInfo struct {
	lane.RawSegment
	Slope     *float64 `json:"slope,omitempty"`
	Intercept *float64 `json:"intercept,omitempty"`
	// Side is "left", "right", or empty for segments the classifier discards.
	Side string `json:"side,omitempty"`
}

// SegmentsResult lists the segments found inside the region of interest.
type SegmentsResult struct {
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	Segments      []SegmentInfo  `json:"segments"`
	LeftCount     int            `json:"left_count"`
	RightCount    int            `json:"right_count"`
	Discarded     int            `json:"discarded"`
	DetectedLeft  *lane.LaneLine `json:"detected_left,omitempty"`
	DetectedRight *lane.LaneLine `json:"detected_right,omitempty"`
}

func (s *Server) handleLaneDetectSegments(args json.RawMessage) (interface{}, error) {
	var a laneDetectSegmentsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	hough := s.cfg.HoughParams()
	if a.Threshold > 0 {
		hough.Threshold = a.Threshold
	}
	if a.MinLineLength != nil {
		hough.MinLineLength = *a.MinLineLength
	}
	if a.MaxLineGap != nil {
		hough.MaxLineGap = *a.MaxLineGap
	}

	frame, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	ext, err := detection.NewExtractor(s.cfg.Backend, s.cfg.EdgeParams(), hough)
	if err != nil {
		return nil, err
	}
	edges, err := ext.Edges(frame)
	if err != nil {
		return nil, err
	}
	masked, err := lane.MaskRegion(edges)
	if err != nil {
		return nil, err
	}
	segments, err := ext.Segments(masked)
	if err != nil {
		return nil, err
	}

	b := masked.Bounds()
	result := &SegmentsResult{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Segments: make([]SegmentInfo, 0, len(segments)),
	}
	for _, seg := range segments {
		info := SegmentInfo{RawSegment: seg}
		if p, ok := seg.Params(); ok {
			info.Slope, info.Intercept = &p.Slope, &p.Intercept
			left, right := lane.Classify([]lane.RawSegment{seg})
			switch {
			case len(left) == 1:
				info.Side = lane.Left.String()
				result.LeftCount++
			case len(right) == 1:
				info.Side = lane.Right.String()
				result.RightCount++
			}
		}
		if info.Side == "" {
			result.Discarded++
		}
		result.Segments = append(result.Segments, info)
	}

	left, right := lane.Classify(segments)
	topY := lane.ROITopY(b.Dy())
	if l, ok := lane.Aggregate(left, b.Dy(), topY); ok {
		result.DetectedLeft = &l
	}
	if r, ok := lane.Aggregate(right, b.Dy(), topY); ok {
		result.DetectedRight = &r
	}
	return result, nil
}

// === Stream Handlers ===

type laneStreamOpenArgs struct {
	HistorySize int `json:"history_size"`
}

// StreamInfo describes an open stream.
type StreamInfo struct {
	StreamID    string `json:"stream_id"`
	Backend     string `json:"backend"`
	HistorySize int    `json:"history_size"`
	Frames      uint64 `json:"frames"`
}

func (s *Server) handleLaneStreamOpen(args json.RawMessage) (interface{}, error) {
	var a laneStreamOpenArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	cfg := *s.cfg
	if a.HistorySize != 0 {
		cfg.Lane.HistorySize = a.HistorySize
	}

	t, err := tracker.New(&cfg, tracker.WithCache(s.cache), tracker.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.streams[t.ID()] = t
	open := len(s.streams)
	s.mu.Unlock()

	s.logger.Info("stream opened", zap.String("stream", t.ID()), zap.Int("open_streams", open))
	return &StreamInfo{
		StreamID:    t.ID(),
		Backend:     t.Backend(),
		HistorySize: cfg.Lane.HistorySize,
	}, nil
}

type laneStreamArgs struct {
	StreamID string `json:"stream_id"`
}

func (s *Server) stream(id string) (*tracker.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.streams[id]
	if !ok {
		return nil, fmt.Errorf("unknown stream: %q", id)
	}
	return t, nil
}

type laneStreamProcessArgs struct {
	StreamID     string `json:"stream_id"`
	Path         string `json:"path"`
	IncludeImage bool   `json:"include_image"`
}

// StreamFrameResult is one processed stream frame.
type StreamFrameResult struct {
	StreamID string `json:"stream_id"`
	*tracker.FrameReport
	Image *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleLaneStreamProcess(args json.RawMessage) (interface{}, error) {
	var a laneStreamProcessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	t, err := s.stream(a.StreamID)
	if err != nil {
		return nil, err
	}

	report, err := t.ProcessFile(a.Path)
	if err != nil {
		return nil, err
	}
	// Frames are read once per stream.
	s.cache.Evict(a.Path)

	result := &StreamFrameResult{StreamID: a.StreamID, FrameReport: report}
	if a.IncludeImage {
		if result.Image, err = imaging.Encode(report.Annotated); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Server) handleLaneStreamReset(args json.RawMessage) (interface{}, error) {
	var a laneStreamArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	t, err := s.stream(a.StreamID)
	if err != nil {
		return nil, err
	}
	t.Reset()
	return &StreamInfo{
		StreamID:    t.ID(),
		Backend:     t.Backend(),
		HistorySize: t.HistorySize(),
		Frames:      t.Frames(),
	}, nil
}

func (s *Server) handleLaneStreamClose(args json.RawMessage) (interface{}, error) {
	var a laneStreamArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	s.mu.Lock()
	t, ok := s.streams[a.StreamID]
	delete(s.streams, a.StreamID)
	open := len(s.streams)
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown stream: %q", a.StreamID)
	}
	s.logger.Info("stream closed",
		zap.String("stream", a.StreamID),
		zap.Uint64("frames", t.Frames()),
		zap.Int("open_streams", open),
	)
	return map[string]interface{}{
		"stream_id": a.StreamID,
		"closed":    true,
		"frames":    t.Frames(),
	}, nil
}

func encodeEdges(edges *image.Gray) (*EdgeDetectResult, error) {
	encoded, err := imaging.Encode(edges)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, v := range edges.Pix {
		if v != 0 {
			count++
		}
	}
	return &EdgeDetectResult{EncodedImage: *encoded, EdgePixels: count}, nil
}
