package encoding

import (
	"image/color"
)

// Pixel is the unpacked content of a single 64 bit map pixel.
//
//	R [16 bits]     -> district (0 for none, otherwise id+1)
//	G,B [32 bits]   -> building (0 for none, otherwise index+1), G holds the significant bits
//	A [16 bits]
//	  16-9 [8 bits] -> zone id
//	   8-1 [8 bits] -> flags
type Pixel struct {
	District uint16
	Building uint32
	Zone     uint8
	Flags    uint8
}

// Pack folds a Pixel into a colour
func Pack(p Pixel) color.RGBA64 {
	return color.RGBA64{
		R: p.District,
		G: uint16(p.Building >> 16),
		B: uint16(p.Building),
		A: uint16(p.Zone)<<8 | uint16(p.Flags),
	}
}

// Unpack is the inverse of Pack
func Unpack(c color.RGBA64) Pixel {
	return Pixel{
		District: c.R,
		Building: uint32(c.G)<<16 | uint32(c.B),
		Zone:     uint8(c.A >> 8),
		Flags:    uint8(c.A),
	}
}

// FlagBytes returns flags as the single byte a bitmap wraps
func FlagBytes(flags uint8) []byte {
	return []byte{flags}
}

// FromFlagBytes turns a bitmap's bytes back into flags.
// Only the first byte is used.
func FromFlagBytes(data []byte) uint8 {
	if len(data) == 0 {
		return 0
	}
	return data[0]
}
