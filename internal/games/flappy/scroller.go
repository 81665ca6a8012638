package flappy

import (
	"math"
	"strconv"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// Scroller is a horizontally looping strip of identical tiles. Each tile
// moves left by one tile width and jumps back, so the strip never runs out.
type Scroller struct {
	cfg   config.ScrollConfig
	node  *engine.Node
	tiles []*engine.Node
	shift float64 // In [0, TileWidth)
}

// NewScroller creates a strip wide enough to cover frameW with its bottom
// edge at baseY.
func NewScroller(name string, cfg config.ScrollConfig, frameW, baseY float64) *Scroller {
	s := &Scroller{
		cfg:  cfg,
		node: engine.NewNode(name),
	}
	count := int(math.Ceil(2 + frameW/cfg.TileWidth))
	for i := 0; i < count; i++ {
		tile := engine.NewNode(name + "-" + strconv.Itoa(i))
		tile.Size = engine.V(cfg.TileWidth, cfg.Height)
		s.node.AddChild(tile)
		s.tiles = append(s.tiles, tile)
	}
	s.node.Position = engine.V(0, baseY)
	s.layout()
	return s
}

// Node returns the strip's container node.
func (s *Scroller) Node() *engine.Node {
	return s.node
}

// Tiles returns the tile nodes, left to right.
func (s *Scroller) Tiles() []*engine.Node {
	return s.tiles
}

// Shift returns how far the strip has scrolled into the current tile.
func (s *Scroller) Shift() float64 {
	return s.shift
}

// Update scrolls the strip by dt seconds.
func (s *Scroller) Update(dt float64) {
	s.shift = math.Mod(s.shift+dt/s.cfg.MoveDurationPerPoint, s.cfg.TileWidth)
	s.layout()
}

// layout centres tile i at i*TileWidth - shift.
func (s *Scroller) layout() {
	for i, t := range s.tiles {
		t.Position = engine.V(float64(i)*s.cfg.TileWidth-s.shift, s.cfg.Height/2)
	}
}
