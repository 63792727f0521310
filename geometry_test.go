package swirl

import "testing"

func TestRotateIdentity(t *testing.T) {
	if Rotate(Anchors, 0) != Anchors {
		t.Error("Rotate(anchors, 0) should equal anchors")
	}
	if Rotate(Anchors, PhaseCount) != Anchors {
		t.Error("Rotate(anchors, 8) should equal anchors")
	}
}

func TestRotateMovesHeadToTail(t *testing.T) {
	got := Rotate(Anchors, 3)
	for i := range got {
		want := Anchors[(i+3)%PhaseCount]
		if got[i] != want {
			t.Errorf("Rotate(anchors, 3)[%d] = %v, want %v", i, got[i], want)
		}
	}
	if got[PhaseCount-3] != Anchors[0] {
		t.Errorf("first anchor should move to index 5, got %v", got[PhaseCount-3])
	}
}

func TestSelectPeriodicity(t *testing.T) {
	for k := -8; k < 16; k++ {
		a := Select(Rotate(Anchors, k))
		b := Select(Rotate(Anchors, k+PhaseCount))
		if a != b {
			t.Errorf("select(rotate(%d)) != select(rotate(%d))", k, k+PhaseCount)
		}
	}
}

func TestPositionsAt(t *testing.T) {
	want := Positions{Anchors[0], Anchors[2], Anchors[4], Anchors[6]}
	if got := PositionsAt(0); got != want {
		t.Errorf("PositionsAt(0) = %v, want %v", got, want)
	}

	want = Positions{Anchors[1], Anchors[3], Anchors[5], Anchors[7]}
	if got := PositionsAt(1); got != want {
		t.Errorf("PositionsAt(1) = %v, want %v", got, want)
	}
	if PositionsAt(-1) != PositionsAt(7) {
		t.Error("PositionsAt(-1) should equal PositionsAt(7)")
	}
}

func TestWrapPhase(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {7, 7}, {8, 0}, {-1, 7}, {-8, 0}, {-9, 7}, {17, 1},
	}
	for _, tt := range tests {
		if got := WrapPhase(tt.in); got != tt.want {
			t.Errorf("WrapPhase(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFitSize(t *testing.T) {
	bounds := Size{Width: 80, Height: 80}
	tests := []struct {
		name string
		in   Size
		want Size
	}{
		{"inside bounds", Size{40, 20}, Size{40, 20}},
		{"exact", Size{80, 80}, Size{80, 80}},
		{"square", Size{160, 160}, Size{80, 80}},
		{"portrait phone", Size{390, 844}, Size{36, 80}},
		{"landscape", Size{844, 390}, Size{80, 36}},
		{"degenerate strip", Size{1000, 1}, Size{80, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitSize(tt.in, bounds); got != tt.want {
				t.Errorf("FitSize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPositionsLerp(t *testing.T) {
	a, b := PositionsAt(0), PositionsAt(1)
	if a.Lerp(b, 0) != a {
		t.Error("Lerp(0) should return the start")
	}
	if a.Lerp(b, 1) != b {
		t.Error("Lerp(1) should return the end")
	}
	mid := a.Lerp(b, 0.5)
	for i := range mid {
		wantX := (a[i].X + b[i].X) / 2
		if d := mid[i].X - wantX; d > 1e-12 || d < -1e-12 {
			t.Errorf("mid[%d].X = %v, want %v", i, mid[i].X, wantX)
		}
	}
}
