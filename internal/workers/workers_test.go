package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{
			name:       "cpu bound",
			multiplier: 1.0,
			limit:      0,
			want:       available,
		},
		{
			name:       "io bound",
			multiplier: 2.0,
			limit:      0,
			want:       available * 2,
		},
		{
			name:       "limit caps result",
			multiplier: 2.0,
			limit:      1,
			want:       1,
		},
		{
			name:       "tiny multiplier floors at one",
			multiplier: 0.0001,
			limit:      0,
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountEnvOverride(t *testing.T) {
	t.Setenv("SCAN_WORKERS", "3")

	if got := Count(1.0, 0); got != 3 {
		t.Errorf("Count() = %d, want override 3", got)
	}
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Count() with limit = %d, want 2", got)
	}
}

func TestCountEnvOverrideInvalid(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	for _, bad := range []string{"zero", "-1", "0"} {
		t.Setenv("SCAN_WORKERS", bad)
		if got := Count(1.0, 0); got != available {
			t.Errorf("Count() with SCAN_WORKERS=%q = %d, want %d", bad, got, available)
		}
	}
}
