package assets

// SpriteSheet slices a texture into a grid of equally sized sprites and
// precomputes the UVRegion for each cell. Cells are indexed row-major from
// the top-left; a texture whose dimensions are not exact multiples of the
// sprite size simply ignores the partial cells at the right and bottom edges.
type SpriteSheet struct {
	coords []UVRegion
	cols   int
}

// NewSpriteSheet slices tex into spriteWidth by spriteHeight cells.
//
// Parameters:
//   - tex: the texture to slice
//   - spriteWidth, spriteHeight: the cell size in pixels
//
// Returns:
//   - SpriteSheet: the precomputed cell regions
func NewSpriteSheet(tex *Texture2D, spriteWidth, spriteHeight uint32) SpriteSheet {
	size := [2]float32{
		float32(spriteWidth) / float32(tex.Width),
		float32(spriteHeight) / float32(tex.Height),
	}

	rows := tex.Height / spriteHeight
	cols := tex.Width / spriteWidth

	coords := make([]UVRegion, 0, rows*cols)
	for y := uint32(0); y < rows; y++ {
		for x := uint32(0); x < cols; x++ {
			coords = append(coords, UVRegion{
				Size: size,
				Offset: [2]float32{
					float32(x*spriteWidth) / float32(tex.Width),
					float32(y*spriteHeight) / float32(tex.Height),
				},
			})
		}
	}

	return SpriteSheet{coords: coords, cols: int(cols)}
}

// At returns the UVRegion for the cell at grid position (x, y).
//
// Parameters:
//   - x: the column, starting at 0 on the left
//   - y: the row, starting at 0 at the top
//
// Returns:
//   - UVRegion: the cell's region
//   - bool: false if the position is outside the grid
func (s SpriteSheet) At(x, y int) (UVRegion, bool) {
	if x < 0 || y < 0 || x >= s.cols {
		return UVRegion{}, false
	}
	return s.ByIndex(y*s.cols + x)
}

// ByIndex returns the UVRegion for the cell at the given row-major index.
//
// Parameters:
//   - index: the row-major cell index
//
// Returns:
//   - UVRegion: the cell's region
//   - bool: false if the index is out of range
func (s SpriteSheet) ByIndex(index int) (UVRegion, bool) {
	if index < 0 || index >= len(s.coords) {
		return UVRegion{}, false
	}
	return s.coords[index], true
}

// Len returns the number of cells in the sheet.
func (s SpriteSheet) Len() int {
	return len(s.coords)
}
