// Package tiffjsonstore registers the built-in "tiff-json" storage device:
// a directory holding data.tif (the BigTIFF frame stream, written the same
// way drivers/tiffstore writes it, but without a per-frame
// ImageDescription) and metadata.json, a single external metadata document
// written once at Start from the stream's configured
// ExternalMetadataJSON, when non-empty.
package tiffjsonstore
