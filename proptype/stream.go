package proptype

// VideoStreamProperties is the complete requested or effective configuration
// for one camera+storage pipeline.
type VideoStreamProperties struct {
	Camera   CameraProperties
	CameraID Identifier

	Storage   StorageProperties
	StorageID Identifier

	// MaxFrameCount bounds the acquisition; 0 means unbounded.
	MaxFrameCount uint64

	// FrameAverageFactor is carried through configuration unchanged. No
	// part of this runtime averages frames: the producer and the built-in
	// simulated cameras never read it, so every value behaves as 1.
	FrameAverageFactor uint32
}

// Clone deep-copies a stream's properties, producing owned strings in the
// result.
func (p VideoStreamProperties) Clone() VideoStreamProperties {
	out := p
	out.CameraID = p.CameraID
	out.StorageID = p.StorageID
	// Start from an empty Storage so CopyStorageProperties allocates fresh
	// buffers instead of writing into the ones out still shares with p.
	out.Storage = StorageProperties{}
	CopyStorageProperties(&out.Storage, p.Storage)
	return out
}
