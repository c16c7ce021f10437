package lantern

import (
	"testing"
)

func TestOccluderBatchLineEncoding(t *testing.T) {
	b := NewOccluderBatch()
	b.Push(OccluderLine{Line: Line{Vec2{0, 0}, Vec2{10, 0}}})

	if b.SegmentCount() != 1 {
		t.Fatalf("SegmentCount = %d, want 1", b.SegmentCount())
	}
	verts := b.Vertices()
	if len(verts) != 4 {
		t.Fatalf("len(Vertices) = %d, want 4", len(verts))
	}
	if len(b.Indices()) != 4 {
		t.Fatalf("len(Indices) = %d, want 4", len(b.Indices()))
	}

	for order, v := range verts {
		if v.Order != order {
			t.Errorf("vertex %d Order = %d, want %d", order, v.Order, order)
		}
		wantA, wantB := Vec2{0, 0}, Vec2{10, 0}
		if order%2 == 1 {
			// odd orders store the edge reversed
			wantA, wantB = wantB, wantA
		}
		if v.LineA != wantA || v.LineB != wantB {
			t.Errorf("vertex %d endpoints = %v-%v, want %v-%v", order, v.LineA, v.LineB, wantA, wantB)
		}
		if v.IgnoreLight1 != IgnoreNone || v.IgnoreLight2 != IgnoreNone {
			t.Errorf("vertex %d ignore slots = %d,%d, want none", order, v.IgnoreLight1, v.IgnoreLight2)
		}
	}
}

func TestOccluderBatchRect(t *testing.T) {
	b := NewOccluderBatch()
	b.Push(OccluderRect{Rect: Rect{X: 0, Y: 0, Width: 10, Height: 10}})

	if b.SegmentCount() != 4 {
		t.Errorf("SegmentCount = %d, want 4", b.SegmentCount())
	}
	if len(b.Vertices()) != 16 {
		t.Errorf("len(Vertices) = %d, want 16", len(b.Vertices()))
	}
}

func TestOccluderBatchCircleSegments(t *testing.T) {
	b := NewOccluderBatch()
	b.Push(OccluderCircle{Circle: Circle{Center: Vec2{0, 0}, Radius: 5}, NumSegments: 8})
	if b.SegmentCount() != 8 {
		t.Errorf("SegmentCount = %d, want 8", b.SegmentCount())
	}

	// default segment count
	b.Clear()
	b.Push(OccluderCircle{Circle: Circle{Center: Vec2{0, 0}, Radius: 5}})
	if b.SegmentCount() != 16 {
		t.Errorf("default SegmentCount = %d, want 16", b.SegmentCount())
	}
}

func TestOccluderBatchCircleEdgesClose(t *testing.T) {
	b := NewOccluderBatch()
	b.Push(OccluderCircle{Circle: Circle{Center: Vec2{0, 0}, Radius: 5}, NumSegments: 8})
	for i := 0; i < b.SegmentCount(); i++ {
		cur := b.segment(i)
		next := b.segment((i + 1) % b.SegmentCount())
		if cur.LineB != next.LineA {
			t.Errorf("segment %d end %v does not meet next start %v", i, cur.LineB, next.LineA)
		}
	}
}

func TestOccluderIgnoreLights(t *testing.T) {
	b := NewOccluderBatch()
	b.Push(OccluderLine{Line: Line{Vec2{0, 0}, Vec2{1, 0}}, IgnoreLights: []int{3}})
	seg := b.segment(0)
	if seg.IgnoreLight1 != 3 || seg.IgnoreLight2 != IgnoreNone {
		t.Errorf("ignore slots = %d,%d, want 3,none", seg.IgnoreLight1, seg.IgnoreLight2)
	}

	b.Push(OccluderLine{Line: Line{Vec2{0, 0}, Vec2{1, 0}}, IgnoreLights: []int{1, 2}})
	seg = b.segment(1)
	if seg.IgnoreLight1 != 1 || seg.IgnoreLight2 != 2 {
		t.Errorf("ignore slots = %d,%d, want 1,2", seg.IgnoreLight1, seg.IgnoreLight2)
	}
}

func TestOccluderTooManyIgnoreLightsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for 3 ignored lights")
		}
	}()
	b := NewOccluderBatch()
	b.Push(OccluderLine{Line: Line{Vec2{0, 0}, Vec2{1, 0}}, IgnoreLights: []int{1, 2, 3}})
}

func TestOccluderBatchClear(t *testing.T) {
	b := NewOccluderBatch()
	b.Push(OccluderRect{Rect: Rect{Width: 1, Height: 1}})
	b.Clear()
	if b.SegmentCount() != 0 || len(b.Indices()) != 0 {
		t.Error("Clear should empty the batch")
	}
}
