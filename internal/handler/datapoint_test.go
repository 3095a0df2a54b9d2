package handler

import "testing"

func TestParseBBox(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
	}{
		{"valid", "34.0,-118.5,34.5,-118.0", true},
		{"valid with spaces", " -10 , -20 , 10 , 20 ", true},
		{"world", "-90,-180,90,180", true},
		{"too few parts", "1,2,3", false},
		{"too many parts", "1,2,3,4,5", false},
		{"not numbers", "a,b,c,d", false},
		{"lat out of range", "-91,0,0,0", false},
		{"lng out of range", "0,0,0,181", false},
		{"min above max lat", "10,0,5,0", false},
		{"min above max lng", "0,10,0,5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bbox, errMsg := parseBBox(tt.raw)
			if tt.wantOK {
				if errMsg != "" {
					t.Fatalf("parseBBox(%q) error = %q, want none", tt.raw, errMsg)
				}
				if bbox == nil {
					t.Fatalf("parseBBox(%q) returned nil bbox", tt.raw)
				}
			} else if errMsg == "" {
				t.Errorf("parseBBox(%q) accepted, want error", tt.raw)
			}
		})
	}
}

func TestParseBBoxValues(t *testing.T) {
	bbox, errMsg := parseBBox("34.0,-118.5,34.5,-118.0")
	if errMsg != "" {
		t.Fatalf("parseBBox: %s", errMsg)
	}
	if bbox.MinLat != 34.0 || bbox.MinLng != -118.5 || bbox.MaxLat != 34.5 || bbox.MaxLng != -118.0 {
		t.Errorf("parseBBox values = %+v", bbox)
	}
}
