package pc

import "testing"

func TestRenderTextFillsBackdropOnBlankVRAM(t *testing.T) {
	vram := make([]uint8, vramSize)
	pix := make([]uint32, fbWidth*fbHeight)
	renderText(vram, pix)
	for _, p := range pix {
		if p != cgaPalette[0] {
			t.Fatal("expected blank VRAM to render entirely black")
		}
	}
}

func TestGlyphStencilBlankForSpace(t *testing.T) {
	if glyphStencil(0x20, 3) != 0 {
		t.Fatal("space character must render as a blank stencil row")
	}
}

func TestRenderTextDistinguishesCharacters(t *testing.T) {
	vram := make([]uint8, vramSize)
	vram[0], vram[1] = 'A', 0x07
	vram[2], vram[3] = 'B', 0x07
	pix := make([]uint32, fbWidth*fbHeight)
	renderText(vram, pix)

	same := true
	for y := 0; y < cellH; y++ {
		for x := 0; x < cellW; x++ {
			if pix[y*fbWidth+x] != pix[y*fbWidth+cellW+x] {
				same = false
			}
		}
	}
	if same {
		t.Fatal("expected distinct characters to render distinct cells")
	}
}
