package cpu

import (
	"encoding/binary"
	"io"
)

// IMAGE_BYTES is the exact size of a serialized image.
const IMAGE_BYTES = MEMORY_SIZE * 4

// Image is a complete memory image: registers, data, code and stack.
type Image [MEMORY_SIZE]uint32

var byteOrder = binary.NativeEndian

// NewImage creates an image with the reserved slots initialized: every
// register holds the literal zero.
func NewImage() (img *Image) {
	img = &Image{}
	for slot := SLOT_REG1; slot <= SLOT_RES; slot++ {
		img[slot] = Literal(0)
	}
	return
}

// Clone returns an independent copy of the image.
func (img *Image) Clone() *Image {
	dup := *img
	return &dup
}

// Ip returns the entry point recorded in the image.
func (img *Image) Ip() uint32 {
	return img[SLOT_IP]
}

// Sp returns the stack pointer recorded in the image.
func (img *Image) Sp() uint32 {
	return img[SLOT_SP]
}

// MarshalBinary encodes the image in host word order.
func (img *Image) MarshalBinary() (data []byte, err error) {
	data = make([]byte, IMAGE_BYTES)
	for n, word := range img {
		byteOrder.PutUint32(data[n*4:], word)
	}
	return
}

// UnmarshalBinary decodes an image in host word order.
func (img *Image) UnmarshalBinary(data []byte) (err error) {
	if len(data) != IMAGE_BYTES {
		err = invalidFile(ErrImageSize(len(data)))
		return
	}

	for n := range img {
		img[n] = byteOrder.Uint32(data[n*4:])
	}

	return
}

// WriteTo writes the serialized image to w.
func (img *Image) WriteTo(w io.Writer) (n int64, err error) {
	data, err := img.MarshalBinary()
	if err != nil {
		return
	}

	written, err := w.Write(data)
	n = int64(written)
	return
}

// ReadImage reads a serialized image. The input must be exactly IMAGE_BYTES long.
func ReadImage(r io.Reader) (img *Image, err error) {
	// Read one byte more than needed, to detect oversized input.
	data, err := io.ReadAll(io.LimitReader(r, IMAGE_BYTES+1))
	if err != nil {
		err = invalidFile(err)
		return
	}

	img = &Image{}
	err = img.UnmarshalBinary(data)
	if err != nil {
		img = nil
	}

	return
}
