package server

import (
	"testing"
)

func toolIndex() map[string]Tool {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}
	return toolMap
}

func requiredFields(t *testing.T, tool Tool) []string {
	t.Helper()
	required, ok := tool.InputSchema["required"]
	if !ok {
		return nil
	}
	list, ok := required.([]string)
	if !ok {
		t.Fatalf("%s: 'required' should be a string slice", tool.Name)
	}
	return list
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_crop",
		"lane_edge_detect",
		"lane_roi_mask",
		"lane_roi_crop",
		"lane_detect_segments",
		"lane_stream_open",
		"lane_stream_process",
		"lane_stream_reset",
		"lane_stream_close",
	}

	toolMap := toolIndex()
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(toolMap) != len(tools) {
		t.Errorf("Duplicate tool names: %d unique of %d", len(toolMap), len(tools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required field must be declared
			for _, r := range requiredFields(t, tool) {
				if _, ok := props[r]; !ok {
					t.Errorf("required field %q has no property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	toolsRequiringPath := []string{
		"image_load",
		"image_dimensions",
		"image_crop",
		"lane_edge_detect",
		"lane_roi_mask",
		"lane_roi_crop",
		"lane_detect_segments",
		"lane_stream_process",
	}

	toolMap := toolIndex()
	for _, name := range toolsRequiringPath {
		t.Run(name, func(t *testing.T) {
			if !contains(requiredFields(t, toolMap[name]), "path") {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_RequiredStreamID(t *testing.T) {
	toolMap := toolIndex()
	for _, name := range []string{"lane_stream_process", "lane_stream_reset", "lane_stream_close"} {
		t.Run(name, func(t *testing.T) {
			if !contains(requiredFields(t, toolMap[name]), "stream_id") {
				t.Error("Tool should require 'stream_id' parameter")
			}
		})
	}

	if req := requiredFields(t, toolMap["lane_stream_open"]); len(req) != 0 {
		t.Errorf("lane_stream_open should have no required fields, got %v", req)
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	tests := []struct {
		tool  string
		param string
		want  interface{}
	}{
		{"image_crop", "scale", 1.0},
		{"lane_roi_crop", "scale", 1.0},
		{"lane_stream_process", "include_image", false},
	}

	toolMap := toolIndex()
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.param, func(t *testing.T) {
			props := toolMap[tt.tool].InputSchema["properties"].(map[string]interface{})
			param, ok := props[tt.param].(map[string]interface{})
			if !ok {
				t.Fatalf("property %s missing", tt.param)
			}
			if param["default"] != tt.want {
				t.Errorf("default: got %v, want %v", param["default"], tt.want)
			}
		})
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
