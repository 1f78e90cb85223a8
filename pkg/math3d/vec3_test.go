package math3d

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func TestCrossAnticommutative(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
	}{
		{"axes", V3(1, 0, 0), V3(0, 1, 0)},
		{"general", V3(1, 2, 3), V3(-4, 5, 0.5)},
		{"parallel", V3(2, 2, 2), V3(1, 1, 1)},
		{"tiny", V3(1e-6, 3e-7, -2e-6), V3(5e-7, -1e-6, 4e-6)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ab := tc.a.Cross(tc.b)
			ba := tc.b.Cross(tc.a)
			if ab != ba.Negate() {
				t.Errorf("a×b = %v, -(b×a) = %v", ab, ba.Negate())
			}
			if d := ab.Dot(tc.a); math.Abs(d) > eps {
				t.Errorf("(a×b)·a = %v, want 0", d)
			}
			if d := ab.Dot(tc.b); math.Abs(d) > eps {
				t.Errorf("(a×b)·b = %v, want 0", d)
			}
		})
	}
}

func TestCrossRightHanded(t *testing.T) {
	got := V3(1, 0, 0).Cross(V3(0, 1, 0))
	if got != V3(0, 0, 1) {
		t.Errorf("x×y = %v, want (0, 0, 1)", got)
	}
}

func TestNormalize(t *testing.T) {
	n := V3(3, 0, 4).Normalize()
	if !n.ApproxEqual(V3(0.6, 0, 0.8), eps) {
		t.Errorf("normalize = %v, want (0.6, 0, 0.8)", n)
	}
	if math.Abs(n.Len()-1) > eps {
		t.Errorf("len = %v, want 1", n.Len())
	}

	zero := Vec3{}.Normalize()
	if !zero.IsZero() {
		t.Errorf("normalize(0) = %v, want zero vector", zero)
	}
}

func TestRelativeToAndDistance(t *testing.T) {
	p := V3(4, 6, 8)
	origin := V3(1, 2, 4)

	if got := p.RelativeTo(origin); got != V3(3, 4, 4) {
		t.Errorf("RelativeTo = %v, want (3, 4, 4)", got)
	}
	if got := V3(3, 4, 0).Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := V3(1, 1, 1).Distance(V3(1, 4, 5)); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestKeyIsBitExact(t *testing.T) {
	a := V3(0.1, 0.2, 0.3)
	b := V3(0.1, 0.2, 0.3)
	if a.Key() != b.Key() {
		t.Error("identical vectors produced different keys")
	}

	c := V3(0.1, 0.2, math.Nextafter(0.3, 1))
	if a.Key() == c.Key() {
		t.Error("vectors one ulp apart share a key")
	}

	// +0 and -0 compare equal but are distinct bit patterns.
	if V3(0, 0, 0).Key() == V3(math.Copysign(0, -1), 0, 0).Key() {
		t.Error("+0 and -0 share a key")
	}
}

func TestPerspectiveDivide(t *testing.T) {
	got, err := V4(2, 4, 6, 2).PerspectiveDivide()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != V3(1, 2, 3) {
		t.Errorf("divide = %v, want (1, 2, 3)", got)
	}

	for _, w := range []float64{0, 1e-15, -1e-13, math.NaN()} {
		if _, err := V4(1, 1, 1, w).PerspectiveDivide(); !errors.Is(err, ErrDegenerateW) {
			t.Errorf("w=%v: err = %v, want ErrDegenerateW", w, err)
		}
	}
}

func TestVec2Cross(t *testing.T) {
	if got := V2(1, 0).Cross(V2(0, 1)); got != 1 {
		t.Errorf("cross = %v, want 1", got)
	}
	if got := V2(0, 1).Cross(V2(1, 0)); got != -1 {
		t.Errorf("cross = %v, want -1", got)
	}
}
