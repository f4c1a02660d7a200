package types

import "testing"

func TestAABBZeroValue(t *testing.T) {
	var box AABB
	if !box.Min.Eq(Point{}) || !box.Max.Eq(Point{}) {
		t.Fatalf("zero value AABB should have zero corners, got %+v", box)
	}
}

func TestAABBConstruction(t *testing.T) {
	min := Point{X: -1, Y: -2}
	max := Point{X: 3, Y: 4}
	box := AABB{Min: min, Max: max}
	if !box.Min.Eq(min) || !box.Max.Eq(max) {
		t.Fatalf("unexpected AABB: %+v", box)
	}
}

func TestAABBExpandAndContains(t *testing.T) {
	box := EmptyAABB()
	box = box.Expand(Point{X: 2, Y: 3})
	box = box.Expand(Point{X: -1, Y: 5})
	if box.Min.X != -1 || box.Min.Y != 3 || box.Max.X != 2 || box.Max.Y != 5 {
		t.Fatalf("unexpected box after expand: %+v", box)
	}
	if !box.Contains(Point{X: 0, Y: 4}) {
		t.Fatalf("expected box to contain interior point")
	}
	if box.Contains(Point{X: 10, Y: 10}) {
		t.Fatalf("expected box to not contain far point")
	}
}

func TestAABBUnion(t *testing.T) {
	a := AABB{Min: Point{X: 0, Y: 0}, Max: Point{X: 1, Y: 1}}
	b := AABB{Min: Point{X: 2, Y: -1}, Max: Point{X: 3, Y: 0.5}}
	u := a.Union(b)
	if u.Min.X != 0 || u.Min.Y != -1 || u.Max.X != 3 || u.Max.Y != 1 {
		t.Fatalf("unexpected union: %+v", u)
	}
}

func TestAABBInflatedDegenerate(t *testing.T) {
	box := AABB{Min: Point{X: 5, Y: 5}, Max: Point{X: 5, Y: 5}}
	inf := box.Inflated(0.5)
	if inf.Width() <= 0 || inf.Height() <= 0 {
		t.Fatalf("expected degenerate box to gain positive extent, got %+v", inf)
	}
	if !inf.Contains(box.Min) {
		t.Fatalf("expected inflated box to still contain original point")
	}
}
