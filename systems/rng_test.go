package systems

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Float32(), b.Float32(); x != y {
			t.Fatalf("draw %d: %v != %v for the same seed", i, x, y)
		}
	}
}

func TestRNGRanges(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		if v := r.Range(50, 150); v < 50 || v >= 150 {
			t.Fatalf("Range(50, 150) = %v", v)
		}
		if v := r.Jitter(4); v < -2 || v >= 2 {
			t.Fatalf("Jitter(4) = %v", v)
		}
	}
}

func TestRNGChance(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want bool
	}{
		{"never", 0, false},
		{"negative", -0.5, false},
		{"always", 1, true},
		{"above one", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRNG(3)
			for i := 0; i < 50; i++ {
				if got := r.Chance(tt.p); got != tt.want {
					t.Fatalf("Chance(%v) = %v, want %v", tt.p, got, tt.want)
				}
			}
		})
	}
}
