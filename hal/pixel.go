package hal

// PackRGB565 packs 8-bit channels into a PixelFormatRGB565 value.
func PackRGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)&0x1F<<11 | uint16(g>>2)&0x3F<<5 | uint16(b>>3)&0x1F
}

// UnpackRGB565 expands a PixelFormatRGB565 value to 8-bit channels.
func UnpackRGB565(p uint16) (r, g, b uint8) {
	r = uint8(uint32(p>>11&0x1F) * 255 / 31)
	g = uint8(uint32(p>>5&0x3F) * 255 / 63)
	b = uint8(uint32(p&0x1F) * 255 / 31)
	return r, g, b
}
