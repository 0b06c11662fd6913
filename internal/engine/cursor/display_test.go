package cursor

import "testing"

func TestDisplayColumn(t *testing.T) {
	tests := []struct {
		name string
		line string
		col  int
		want int
	}{
		{"ascii", "hello", 3, 3},
		{"past end", "hi", 10, 2},
		{"negative", "hi", -1, 0},
		{"tab", "\tx", 1, 4},
		{"tab mid stop", "ab\tx", 3, 4},
		{"two byte rune", "é!", 2, 1},
		{"inside rune", "é!", 1, 0},
		{"wide rune", "世界", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayColumn([]byte(tt.line), tt.col, 4); got != tt.want {
				t.Errorf("DisplayColumn(%q, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
			}
		})
	}
}

func TestByteColumn(t *testing.T) {
	tests := []struct {
		name string
		line string
		cell int
		want int
	}{
		{"ascii", "hello", 2, 2},
		{"past end", "hi", 9, 2},
		{"zero", "hi", 0, 0},
		{"wide first half", "世界", 1, 0},
		{"wide second", "世界", 2, 3},
		{"tab interior", "\tx", 2, 0},
		{"after tab", "\tx", 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ByteColumn([]byte(tt.line), tt.cell, 4); got != tt.want {
				t.Errorf("ByteColumn(%q, %d) = %d, want %d", tt.line, tt.cell, got, tt.want)
			}
		})
	}
}

func TestGraphemeStepping(t *testing.T) {
	line := []byte("aé世")

	if got := NextGrapheme(line, 0); got != 1 {
		t.Errorf("NextGrapheme(0) = %d, want 1", got)
	}
	if got := NextGrapheme(line, 1); got != 3 {
		t.Errorf("NextGrapheme(1) = %d, want 3", got)
	}
	if got := NextGrapheme(line, 6); got != 6 {
		t.Errorf("NextGrapheme(end) = %d, want 6", got)
	}
	if got := PrevGrapheme(line, 6); got != 3 {
		t.Errorf("PrevGrapheme(6) = %d, want 3", got)
	}
	if got := PrevGrapheme(line, 3); got != 1 {
		t.Errorf("PrevGrapheme(3) = %d, want 1", got)
	}
	if got := PrevGrapheme(line, 0); got != 0 {
		t.Errorf("PrevGrapheme(0) = %d, want 0", got)
	}
}
