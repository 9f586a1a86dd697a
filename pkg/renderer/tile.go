package renderer

import "image"

// Tile is a rectangular region of the frame rendered by a single worker
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Seed   int64           // Seed for the tile's sampler, fixed by the tile position
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle, baseSeed int64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Seed:   tileSeed(baseSeed, id),
	}
}

// NewRowTiles splits the frame into one tile per scanline
func NewRowTiles(width, height int, baseSeed int64) []*Tile {
	tiles := make([]*Tile, 0, height)
	for y := 0; y < height; y++ {
		tiles = append(tiles, NewTile(y, image.Rect(0, y, width, y+1), baseSeed))
	}
	return tiles
}

// tileSeed derives a deterministic seed so results do not depend on which
// worker picks up the tile
func tileSeed(baseSeed int64, id int) int64 {
	return baseSeed*1000003 + int64(id) + 42 // +42 to avoid seed 0
}
