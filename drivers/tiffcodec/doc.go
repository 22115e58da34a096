// Package tiffcodec is a minimal BigTIFF writer shared by drivers/tiffstore
// and drivers/tiffjsonstore. It writes exactly the subset of the BigTIFF
// structure both sinks need: a header, one IFD per frame describing a
// single uncompressed strip, and an ImageDescription tag for caller-supplied
// metadata. It is hand-rolled because no example or ecosystem library in
// this repo's lineage supports writing BigTIFF with custom per-IFD tags;
// golang.org/x/image/tiff only encodes/decodes classic single-image TIFF
// through Go's image.Image interface, with no control over tags or
// multi-IFD chaining.
package tiffcodec
