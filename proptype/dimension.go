package proptype

import "fmt"

// DimensionKind classifies a StorageDimension's axis.
type DimensionKind int

const (
	DimensionSpace DimensionKind = iota
	DimensionChannel
	DimensionTime
	DimensionOther
	dimensionKindCount
)

// StorageDimension names one axis of a chunked/sharded storage layout. The
// last-listed dimension in a DimensionArray is the append dimension; the
// first is the fastest-varying.
type StorageDimension struct {
	Name            String
	Kind            DimensionKind
	ArraySizePx     uint64
	ChunkSizePx     uint64
	ShardSizeChunks uint64
}

// DimensionArray is a fixed-length, owned set of StorageDimension slots.
type DimensionArray struct {
	slots []StorageDimension
}

// NewDimensionArray allocates n zeroed slots.
func NewDimensionArray(n int) DimensionArray {
	return DimensionArray{slots: make([]StorageDimension, n)}
}

// Len returns the number of slots.
func (a DimensionArray) Len() int { return len(a.slots) }

// At returns the slot at index, or the zero value if out of range.
func (a DimensionArray) At(index int) StorageDimension {
	if index < 0 || index >= len(a.slots) {
		return StorageDimension{}
	}
	return a.slots[index]
}

// Set assigns slot index. It fails (leaving the slot zeroed) when name is
// empty, kind is out of range, or index is out of bounds — mirroring the
// core's validation for dimension_array_set.
func (a *DimensionArray) Set(index int, name string, kind DimensionKind, arraySizePx, chunkSizePx, shardSizeChunks uint64) error {
	if index < 0 || index >= len(a.slots) {
		return fmt.Errorf("proptype: dimension index %d out of range [0,%d)", index, len(a.slots))
	}
	if name == "" {
		a.slots[index] = StorageDimension{}
		return fmt.Errorf("proptype: dimension name must not be empty")
	}
	if kind < 0 || kind >= dimensionKindCount {
		a.slots[index] = StorageDimension{}
		return fmt.Errorf("proptype: dimension kind %d out of range", int(kind))
	}
	a.slots[index] = StorageDimension{
		Name:            NewOwnedString(name),
		Kind:            kind,
		ArraySizePx:     arraySizePx,
		ChunkSizePx:     chunkSizePx,
		ShardSizeChunks: shardSizeChunks,
	}
	return nil
}

// Destroy clears every slot's owned name and releases the backing array.
// Go's garbage collector reclaims the memory; Destroy exists to give tests
// and callers a deterministic point at which the array must no longer be
// used, matching the core's explicit free discipline.
func (a *DimensionArray) Destroy() {
	a.slots = nil
}

// Clone deep-copies the array, producing owned names in the result
// regardless of the source's provenance.
func (a DimensionArray) Clone() DimensionArray {
	out := NewDimensionArray(len(a.slots))
	for i, d := range a.slots {
		var name String
		CopyString(&name, d.Name)
		out.slots[i] = StorageDimension{
			Name:            name,
			Kind:            d.Kind,
			ArraySizePx:     d.ArraySizePx,
			ChunkSizePx:     d.ChunkSizePx,
			ShardSizeChunks: d.ShardSizeChunks,
		}
	}
	return out
}
