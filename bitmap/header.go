package bitmap

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/m-mizutani/goerr/v2"

	"github.com/BeatGlow/avatar/internal/report"
	"github.com/BeatGlow/avatar/pixel"
)

// Fixed header values of a 24-bit uncompressed bitmap.
const (
	FileHeaderSize = 14
	InfoHeaderSize = 40
	DataOffset     = FileHeaderSize + InfoHeaderSize
	Planes         = 1
	BitCount       = 8 * pixel.BytesPerPixel
	CompressionRGB = 0
)

// Signature is the magic at the start of every bitmap file.
var Signature = [2]byte{'B', 'M'}

// Header is the BITMAPFILEHEADER followed by the BITMAPINFOHEADER.
//
// All fields derive from the image dimensions; use [NewHeader].
type Header struct {
	Signature       [2]byte // The file type, "BM".
	FileSize        uint32  // The size, in bytes, of the bitmap file.
	Reserved        uint32  // Reserved; zero.
	DataOffset      uint32  // Offset, in bytes, of the pixel data.
	HeaderSize      uint32  // Size of the info header (40).
	Width           int32   // The width of the bitmap, in pixels.
	Height          int32   // The height of the bitmap, in pixels.
	Planes          uint16  // Number of color planes (1).
	BitCount        uint16  // Bits per pixel (24).
	Compression     uint32  // Compression method (0, none).
	ImageSize       uint32  // Size of the pixel data, row padding included.
	XPixelsPerMeter int32   // Horizontal resolution; unset.
	YPixelsPerMeter int32   // Vertical resolution; unset.
	ColorsUsed      uint32  // Palette colors; none.
	ColorsImportant uint32  // Important colors; all.
}

// NewHeader returns the header of a width×height 24-bit bitmap.
func NewHeader(width, height int) (Header, error) {
	if width <= 0 || height <= 0 || int64(width) > 1<<31-1 || int64(height) > 1<<31-1 {
		return Header{}, goerr.Wrap(report.InvalidArgument, "invalid bitmap dimensions",
			goerr.V("width", width), goerr.V("height", height))
	}

	size := uint64(pixel.Stride(width)) * uint64(height)
	if size > pixel.MaxPixSize {
		return Header{}, goerr.Wrap(report.AllocationFailure, "bitmap too large",
			goerr.V("width", width), goerr.V("height", height))
	}

	return Header{
		Signature:   Signature,
		FileSize:    DataOffset + uint32(size),
		DataOffset:  DataOffset,
		HeaderSize:  InfoHeaderSize,
		Width:       int32(width),
		Height:      int32(height),
		Planes:      Planes,
		BitCount:    BitCount,
		Compression: CompressionRGB,
		ImageSize:   uint32(size),
	}, nil
}

// Stride is the padded row size, in bytes, of the described pixel data.
func (h Header) Stride() int {
	return pixel.Stride(int(h.Width))
}

// MarshalBinary returns the 54 header bytes.
func (h Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(DataOffset)
	fw := &fieldWriter{w: &buf}
	h.write(fw)
	if fw.err != nil {
		return nil, fw.err
	}
	return buf.Bytes(), nil
}

func (h Header) write(fw *fieldWriter) {
	fw.bytes("signature", h.Signature[:])
	fw.uint32("file size", h.FileSize)
	fw.uint32("reserved", h.Reserved)
	fw.uint32("data offset", h.DataOffset)
	fw.uint32("header size", h.HeaderSize)
	fw.uint32("width", uint32(h.Width))
	fw.uint32("height", uint32(h.Height))
	fw.uint16("planes", h.Planes)
	fw.uint16("bit count", h.BitCount)
	fw.uint32("compression", h.Compression)
	fw.uint32("image size", h.ImageSize)
	fw.uint32("horizontal resolution", uint32(h.XPixelsPerMeter))
	fw.uint32("vertical resolution", uint32(h.YPixelsPerMeter))
	fw.uint32("colors used", h.ColorsUsed)
	fw.uint32("important colors", h.ColorsImportant)
}

// fieldWriter issues one Write per field. The first failing field sticks;
// later fields are not written at all.
type fieldWriter struct {
	w     io.Writer
	buf   [4]byte
	n     int64
	field string
	err   error
}

func (fw *fieldWriter) bytes(field string, b []byte) {
	if fw.err != nil {
		return
	}
	n, err := fw.w.Write(b)
	fw.n += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		fw.field = field
		fw.err = err
	}
}

func (fw *fieldWriter) uint16(field string, v uint16) {
	fw.bytes(field, binary.LittleEndian.AppendUint16(fw.buf[:0], v))
}

func (fw *fieldWriter) uint32(field string, v uint32) {
	fw.bytes(field, binary.LittleEndian.AppendUint32(fw.buf[:0], v))
}
