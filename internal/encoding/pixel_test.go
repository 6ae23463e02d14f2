package encoding

import (
	"testing"

	"github.com/boljen/go-bitmap"
	"github.com/stretchr/testify/assert"
)

func TestPack_FieldsIndependent(t *testing.T) {
	px := Pixel{District: 0xBEEF, Building: 0x12345678, Zone: 0x02, Flags: 0x15}
	c := Pack(px)

	assert.Equal(t, uint16(0xBEEF), c.R)
	assert.Equal(t, uint16(0x1234), c.G)
	assert.Equal(t, uint16(0x5678), c.B)
	assert.Equal(t, uint16(0x0215), c.A)
	assert.Equal(t, px, Unpack(c))
}

func TestFlagBytes_Bitmap(t *testing.T) {
	bm := bitmap.Bitmap(FlagBytes(0))
	bm.Set(4, true)
	bm.Set(0, true)

	flags := FromFlagBytes(bm.Data(true))
	again := bitmap.Bitmap(FlagBytes(flags))

	assert.True(t, again.Get(0))
	assert.True(t, again.Get(4))
	assert.False(t, again.Get(1))
	assert.Equal(t, uint8(0), FromFlagBytes(nil))
}
