package analysis

import "testing"

func TestParseLapTime(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"1:30.000", 90000, true},
		{"1:31.456", 91456, true},
		{"0:59.999", 59999, true},
		{"12:05.001", 725001, true},
		{"58.123", 58123, true},
		{"5.000", 5000, true},
		{"", 0, false},
		{"1:30", 0, false},
		{"1:30.00", 0, false},
		{"1:30.0000", 0, false},
		{"90", 0, false},
		{"1:3x.000", 0, false},
		{"x:30.000", 0, false},
		{"-1:30.000", 0, false},
		{"1:30:000", 0, false},
		{"123.456s", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLapTime(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseLapTime(%q) ok=%v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseLapTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseGapSeconds(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"+1.234", f64(1.234)},
		{"12.5", f64(12.5)},
		{"+0.0", f64(0)},
		{"", nil},
		{"1 L", nil},
		{"2 LAPS", nil},
		{"LAP 1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseGapSeconds(tt.input)
			switch {
			case (got == nil) != (tt.want == nil):
				t.Errorf("parseGapSeconds(%q) = %v, want %v", tt.input, got, tt.want)
			case got != nil && *got != *tt.want:
				t.Errorf("parseGapSeconds(%q) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

func f64(v float64) *float64 { return &v }
