package lut

import (
	"math"
	"testing"
)

func TestComposeKeepsFirstResolution(t *testing.T) {
	a := NewIdentity(33, "A")
	b := NewIdentity(17, "B")

	out, err := Compose(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if out.Size != 33 {
		t.Errorf("Size = %d, want first input's 33", out.Size)
	}
	if out.Name != "A_PLUS_B" {
		t.Errorf("Name = %q, want A_PLUS_B", out.Name)
	}
}

func TestComposeWithIdentityIsNoOp(t *testing.T) {
	g := testGrid(9)
	id := NewIdentity(17, "identity")

	out, err := Compose(g, id)
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Table {
		if !vecNear(out.Table[i], g.Table[i], 1e-9) {
			t.Fatalf("table[%d] = %v, want %v", i, out.Table[i], g.Table[i])
		}
	}
}

func TestComposeNotCommutative(t *testing.T) {
	// A halves, B inverts; the two orders disagree away from fixed points.
	a := New(5, "half")
	b := New(5, "invert")
	step := 0.25
	i := 0
	for bb := 0; bb < 5; bb++ {
		for gg := 0; gg < 5; gg++ {
			for rr := 0; rr < 5; rr++ {
				p := Vec3{float64(rr) * step, float64(gg) * step, float64(bb) * step}
				a.Table[i] = p.Scale(0.5)
				b.Table[i] = Vec3{1 - p[0], 1 - p[1], 1 - p[2]}
				i++
			}
		}
	}

	ab, err := Compose(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Compose(b, a)
	if err != nil {
		t.Fatal(err)
	}

	// B(A(x)) = 1 - x/2, A(B(x)) = (1-x)/2; they differ everywhere but x=1.
	p := Vec3{0, 0, 0}
	got1 := ab.Sample(p)
	got2 := ba.Sample(p)
	if vecNear(got1, got2, 1e-6) {
		t.Errorf("Compose(A,B) and Compose(B,A) agree at %v: %v", p, got1)
	}
	if !vecNear(got1, Vec3{1, 1, 1}, 1e-9) {
		t.Errorf("B(A(0)) = %v, want (1,1,1)", got1)
	}
	if !vecNear(got2, Vec3{0.5, 0.5, 0.5}, 1e-9) {
		t.Errorf("A(B(0)) = %v, want (0.5,0.5,0.5)", got2)
	}
}

func TestComposeAssociativeInEffect(t *testing.T) {
	// (A∘B)∘C and A∘(B∘C) agree pointwise up to accumulated interpolation
	// error. Smooth grids keep that error small.
	a := testGrid(17)
	b := NewIdentity(17, "B")
	for i := range b.Table {
		b.Table[i] = b.Table[i].Scale(0.9).Add(Vec3{0.05, 0.05, 0.05})
	}
	c := NewIdentity(17, "C")
	for i := range c.Table {
		v := c.Table[i]
		c.Table[i] = Vec3{v[2], v[0], v[1]}
	}

	ab, err := Compose(a, b)
	if err != nil {
		t.Fatal(err)
	}
	abC, err := Compose(ab, c)
	if err != nil {
		t.Fatal(err)
	}
	bc, err := Compose(b, c)
	if err != nil {
		t.Fatal(err)
	}
	aBC, err := Compose(a, bc)
	if err != nil {
		t.Fatal(err)
	}

	var worst float64
	for i := range abC.Table {
		for ch := 0; ch < 3; ch++ {
			d := math.Abs(abC.Table[i][ch] - aBC.Table[i][ch])
			if d > worst {
				worst = d
			}
		}
	}
	if worst > 0.02 {
		t.Errorf("associativity error %g exceeds interpolation bound", worst)
	}
}

func TestComposeRejectsInvalidGrids(t *testing.T) {
	good := NewIdentity(5, "good")
	bad := &Grid{Size: 5, Table: make([]Vec3, 10), Name: "bad"}

	if _, err := Compose(bad, good); err == nil {
		t.Error("Compose should reject invalid first grid")
	}
	if _, err := Compose(good, bad); err == nil {
		t.Error("Compose should reject invalid second grid")
	}
}
