package proptype

import "testing"

func TestDimensionArraySetAndGet(t *testing.T) {
	arr := NewDimensionArray(3)
	if err := arr.Set(0, "x", DimensionSpace, 2048, 512, 4); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got := arr.At(0)
	if got.Name.String() != "x" || got.Kind != DimensionSpace || got.ArraySizePx != 2048 {
		t.Fatalf("unexpected slot: %+v", got)
	}
}

func TestDimensionArraySetRejectsEmptyName(t *testing.T) {
	arr := NewDimensionArray(1)
	if err := arr.Set(0, "", DimensionSpace, 1, 1, 1); err == nil {
		t.Fatal("expected error for empty name")
	}
	if got := arr.At(0); got.Name.Len() != 0 {
		t.Fatalf("expected zeroed slot after failed set, got %+v", got)
	}
}

func TestDimensionArraySetRejectsBadKind(t *testing.T) {
	arr := NewDimensionArray(1)
	if err := arr.Set(0, "t", DimensionKind(99), 1, 1, 1); err == nil {
		t.Fatal("expected error for out-of-range kind")
	}
}

func TestDimensionArraySetRejectsOutOfRangeIndex(t *testing.T) {
	arr := NewDimensionArray(1)
	if err := arr.Set(5, "t", DimensionSpace, 1, 1, 1); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestDimensionArrayCloneOwnsNames(t *testing.T) {
	arr := NewDimensionArray(1)
	_ = arr.Set(0, "channel", DimensionChannel, 3, 1, 1)
	clone := arr.Clone()
	if !clone.At(0).Name.IsOwned() {
		t.Fatal("clone should own its dimension names")
	}
	if clone.At(0).Name.String() != "channel" {
		t.Fatalf("clone name=%q want channel", clone.At(0).Name.String())
	}
}
