package imaging

import (
	"image/color"
	"testing"
)

func TestParseLineColor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"green with hash", "#00FF00", color.NRGBA{0, 255, 0, 255}, false},
		{"red without hash", "ff0000", color.NRGBA{255, 0, 0, 255}, false},
		{"padded", "  #0000ff ", color.NRGBA{0, 0, 255, 255}, false},
		{"empty", "", color.NRGBA{}, true},
		{"garbage", "#zzzzzz", color.NRGBA{}, true},
		{"short", "#12", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLineColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLineColor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
