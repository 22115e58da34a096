package proptype

import "strings"

// FileURIPrefix is the optional scheme prefix accepted on storage URIs.
const FileURIPrefix = "file://"

// StorageProperties is the requested or effective configuration of one
// storage device.
type StorageProperties struct {
	URI                 String
	ExternalMetadataJSON String
	S3AccessKeyID       String
	S3SecretAccessKey   String
	PixelScaleUm        [2]float64
	Dimensions          DimensionArray
	Multiscale          bool
	// FirstFrameID is reserved for file rollover and currently unused by
	// any shipped sink (see SPEC_FULL.md Open Question (b)).
	FirstFrameID uint64
}

// CopyStorageProperties copies src into dst such that dst owns every string
// and dimension-array field afterward, regardless of src's provenance. It is
// idempotent: copying dst into itself is a no-op other than normalizing
// ownership, and calling it twice in a row yields the same observable dst.
func CopyStorageProperties(dst *StorageProperties, src StorageProperties) {
	CopyString(&dst.URI, src.URI)
	CopyString(&dst.ExternalMetadataJSON, src.ExternalMetadataJSON)
	CopyString(&dst.S3AccessKeyID, src.S3AccessKeyID)
	CopyString(&dst.S3SecretAccessKey, src.S3SecretAccessKey)
	dst.PixelScaleUm = src.PixelScaleUm
	dst.Dimensions = src.Dimensions.Clone()
	dst.Multiscale = src.Multiscale
	dst.FirstFrameID = src.FirstFrameID
}

// NormalizeURI strips a leading "file://" from uri, returning the stripped
// form and whether the prefix was present. Sinks store and report only the
// stripped form; the original is preserved in the caller's own properties
// record only if the caller asked to see it back via Get.
func NormalizeURI(uri string) (stripped string, hadFilePrefix bool) {
	if strings.HasPrefix(uri, FileURIPrefix) {
		return uri[len(FileURIPrefix):], true
	}
	return uri, false
}
