package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestImage(t *testing.T) {
	assert := assert.New(t)

	img := NewImage()
	assert.Equal(uint32(0), img.Ip())
	assert.Equal(uint32(0), img.Sp())
	assert.Equal(Literal(0), img[SLOT_RES])

	dup := img.Clone()
	dup[SLOT_RES] = Literal(1)
	assert.Equal(Literal(0), img[SLOT_RES])
}

func TestImage_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "strings s Hello\n. commands str s exit .")

	var buf bytes.Buffer
	n, err := prog.Image.WriteTo(&buf)
	assert.NoError(err)
	assert.Equal(int64(IMAGE_BYTES), n)
	assert.Equal(IMAGE_BYTES, buf.Len())

	img, err := ReadImage(&buf)
	assert.NoError(err)
	assert.Empty(cmp.Diff(prog.Image, img))

	data, err := img.MarshalBinary()
	assert.NoError(err)
	assert.Equal(byteOrder.Uint32(data[SLOT_SP*4:]), img.Sp())
}

func TestImage_Size(t *testing.T) {
	assert := assert.New(t)

	for _, size := range []int{0, 4, IMAGE_BYTES - 1, IMAGE_BYTES + 1, IMAGE_BYTES + 4} {
		img, err := ReadImage(strings.NewReader(strings.Repeat("\x00", size)))
		assert.Nil(img)
		assert.ErrorIs(err, ErrInvalidFile)
		assert.ErrorIs(err, ErrImageSize(min(size, IMAGE_BYTES+1)))
	}
}
