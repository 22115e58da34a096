// Package tiffstore registers the built-in "tiff" storage device: a single
// BigTIFF file with one IFD per appended frame, each frame's acquisition
// metadata embedded as a JSON string in that IFD's ImageDescription tag.
// BigTIFF's 8-byte offsets let the file grow past the 4GiB ceiling a
// classic TIFF directory chain would hit during a long acquisition.
package tiffstore
