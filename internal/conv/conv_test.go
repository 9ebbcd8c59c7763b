package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	if got := IntToUint32(42); got != 42 {
		t.Errorf("IntToUint32(42) = %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("IntToUint32(-1) should panic")
		}
	}()
	IntToUint32(-1)
}

func TestIntToInt32(t *testing.T) {
	if !FitsInt32(math.MaxInt32) {
		t.Error("MaxInt32 should fit")
	}
	if FitsInt32(math.MaxInt32 + 1) {
		t.Error("MaxInt32+1 should not fit")
	}
	if got := IntToInt32(-7); got != -7 {
		t.Errorf("IntToInt32(-7) = %d", got)
	}
}

func TestAppendDigit(t *testing.T) {
	tests := []struct {
		n, d, want int
	}{
		{0, 7, 7},
		{12, 3, 123},
		{math.MaxInt32 / 10, 9, math.MaxInt32},
		{math.MaxInt32, 0, math.MaxInt32},
	}
	for _, tt := range tests {
		if got := AppendDigit(tt.n, tt.d); got != tt.want {
			t.Errorf("AppendDigit(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.want)
		}
	}
}
