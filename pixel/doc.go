// Package pixel implements the 24-bit truecolor pixel buffer that backs generated bitmaps.
//
// The buffer layout matches bitmap pixel data byte for byte: blue, green, red per pixel and
// rows padded to a multiple of 4 bytes. Types are compatible with Go's native [color.Color]
// and [image.Image] / [draw.Image] interfaces.
package pixel
