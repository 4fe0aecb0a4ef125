package loom

import "testing"

func TestConstraintsConstrain(t *testing.T) {
	c := Constraints{MinW: 2, MaxW: 10, MinH: 1, MaxH: 5}
	tests := []struct {
		in, want Size
	}{
		{Size{W: 5, H: 3}, Size{W: 5, H: 3}},
		{Size{W: 0, H: 0}, Size{W: 2, H: 1}},
		{Size{W: 20, H: 9}, Size{W: 10, H: 5}},
	}
	for _, tt := range tests {
		if got := c.Constrain(tt.in); got != tt.want {
			t.Errorf("Constrain(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConstraintsTightLoose(t *testing.T) {
	tight := TightFor(4, 2)
	if !tight.IsTight() {
		t.Error("TightFor not tight")
	}
	if !tight.IsSatisfiedBy(Size{W: 4, H: 2}) {
		t.Error("tight size not satisfied")
	}
	if tight.IsSatisfiedBy(Size{W: 3, H: 2}) {
		t.Error("wrong size satisfied tight constraints")
	}

	loose := tight.Loosen()
	if loose.IsTight() {
		t.Error("loosened constraints still tight")
	}
	if !loose.IsSatisfiedBy(Size{W: 0, H: 0}) {
		t.Error("zero size not satisfied by loosened constraints")
	}
}

func TestConstraintsBounded(t *testing.T) {
	c := Constraints{MaxW: 10, MaxH: Unbounded}
	if !c.IsBoundedW() {
		t.Error("finite width reported unbounded")
	}
	if c.IsBoundedH() {
		t.Error("unbounded height reported bounded")
	}
}

func TestConstraintsDeflate(t *testing.T) {
	c := Constraints{MinW: 3, MaxW: 10, MinH: 2, MaxH: 6}
	d := c.Deflate(4, 3)
	if d.MinW != 0 || d.MaxW != 6 {
		t.Errorf("width bounds = [%v,%v], want [0,6]", d.MinW, d.MaxW)
	}
	if d.MinH != 0 || d.MaxH != 3 {
		t.Errorf("height bounds = [%v,%v], want [0,3]", d.MinH, d.MaxH)
	}

	// Unbounded axes stay unbounded
	u := Constraints{MaxW: Unbounded, MaxH: 5}.Deflate(2, 2)
	if u.IsBoundedW() {
		t.Error("deflate bounded an unbounded axis")
	}

	// Insets larger than the bounds floor at zero
	z := Constraints{MaxW: 3, MaxH: 3}.Deflate(10, 10)
	if z.MaxW != 0 || z.MaxH != 0 {
		t.Errorf("over-deflated bounds = [%v,%v]", z.MaxW, z.MaxH)
	}
}

func TestEdgeInsets(t *testing.T) {
	e := InsetsSymmetric(2, 1)
	if e.Horizontal() != 4 || e.Vertical() != 2 {
		t.Errorf("sums = %v/%v", e.Horizontal(), e.Vertical())
	}
	a := InsetsAll(3)
	if a.Top != 3 || a.Right != 3 || a.Bottom != 3 || a.Left != 3 {
		t.Errorf("InsetsAll = %+v", a)
	}
}
