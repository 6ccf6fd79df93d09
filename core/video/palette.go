// Package video holds small, system-agnostic rendering helpers shared
// across PPU/VDP implementations: packed-tile bit unpacking and the
// fixed hardware palettes that don't belong to any one console's
// register file.
package video

// NESPalette is the canonical 64-entry NTSC 2C02 palette, ARGB8888
// with full alpha, indexed by the 6-bit color the PPU resolves from
// nametable/attribute/pattern data.
var NESPalette = [64]uint32{
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFEF96, 0xFFBDF4AB, 0xFFB3F3CC, 0xFFB5EBF2, 0xFFB8B8B8, 0xFF000000, 0xFF000000,
}

// DMGPalette is the classic 4-shade Game Boy LCD palette (index 0 the
// lightest, 3 the darkest), ARGB8888. BGP/OBP0/OBP1 remap 2-bit color
// numbers through this table.
var DMGPalette = [4]uint32{
	0xFF9BBC0F,
	0xFF8BAC0F,
	0xFF306230,
	0xFF0F380F,
}

// UnpackTileRow decodes one 8-pixel row of a 2-bits-per-pixel packed
// tile (the NES CHR and Game Boy tile format) into palette indices 0-3.
func UnpackTileRow(lo, hi uint8) [8]uint8 {
	var row [8]uint8
	for bit := 0; bit < 8; bit++ {
		shift := uint(7 - bit)
		row[bit] = ((lo >> shift) & 1) | (((hi >> shift) & 1) << 1)
	}
	return row
}
