package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// Visual characters for rendering
const (
	PipeChar     = '█'
	SkylineChar  = '▓'
	GrassChar    = '▀'
	DirtChar     = '░'
	DirtAltChar  = '▒'
	ScoreChar    = '█'
	WingUpChar   = '^'
	WingDownChar = 'v'
)

// Bird heads by attitude.
const (
	HeadRising  = '➚'
	HeadLevel   = '➔'
	HeadFalling = '➘'
)

// skylineProfile is the building height across one skyline tile, as a
// fraction of the strip height.
var skylineProfile = []float64{0.5, 0.5, 0.75, 0.75, 0.25, 1, 1, 0.5, 0.5, 0.75, 0.25, 0.25}

// bigDigits is a 3x5 font for the score label.
var bigDigits = [10][5]string{
	{"###", "# #", "# #", "# #", "###"},
	{" # ", "## ", " # ", " # ", "###"},
	{"###", "  #", "###", "#  ", "###"},
	{"###", "  #", "###", "  #", "###"},
	{"# #", "# #", "###", "  #", "  #"},
	{"###", "#  ", "###", "  #", "###"},
	{"###", "#  ", "###", "# #", "###"},
	{"###", "  #", "  #", "  #", "  #"},
	{"###", "# #", "###", "# #", "###"},
	{"###", "# #", "###", "  #", "###"},
}

// viewport maps scene points (y up) to screen cells (y down).
type viewport struct {
	w, h   int
	cw, ch float64
}

func (v viewport) col(x float64) int {
	return int(math.Floor(x / v.cw))
}

func (v viewport) row(y float64) int {
	return v.h - 1 - int(math.Floor(y/v.ch))
}

// fillRect fills every cell whose centre lies inside the box.
func (v viewport) fillRect(dst *core.Screen, minX, minY, maxX, maxY float64, r rune, fg core.Color) {
	for cx := v.col(minX); cx <= v.col(maxX); cx++ {
		px := (float64(cx) + 0.5) * v.cw
		if px < minX || px >= maxX {
			continue
		}
		for cy := v.row(maxY); cy <= v.row(minY); cy++ {
			py := (float64(v.h-1-cy) + 0.5) * v.ch
			if py < minY || py >= maxY {
				continue
			}
			dst.SetColored(cx, cy, r, fg)
		}
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.world == nil {
		return
	}
	dst.FillBackground(g.background)

	v := viewport{w: dst.Width(), h: dst.Height(), cw: g.cfg.Cell.Width, ch: g.cfg.Cell.Height}

	// Back to front
	g.drawScoreLabel(dst, v)
	g.drawSkyline(dst, v)
	g.drawPipes(dst, v)
	g.drawGround(dst, v)
	g.drawBird(dst, v)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	if g.CanRestart() {
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press space to restart", g.score))
	}
}

// drawScoreLabel draws the score as big faded digits behind the scene.
func (g *Game) drawScoreLabel(dst *core.Screen, v viewport) {
	text := g.scoreText
	width := len(text)*4 - 1
	left := v.col(g.frameW/2) - width/2
	bottom := v.row(g.frameH / 6)

	for i, ch := range text {
		glyph := bigDigits[ch-'0']
		for dy, line := range glyph {
			for dx, px := range line {
				if px == '#' {
					dst.SetColored(left+i*4+dx, bottom-4+dy, ScoreChar, core.ColorBrightCyan)
				}
			}
		}
	}
}

func (g *Game) drawSkyline(dst *core.Screen, v viewport) {
	tileW := g.cfg.Skyline.TileWidth
	stripH := g.cfg.Skyline.Height
	base := g.skyline.Node().Position.Y

	for _, tile := range g.skyline.Tiles() {
		left := tile.WorldPosition().X - tileW/2
		for i, frac := range skylineProfile {
			colW := tileW / float64(len(skylineProfile))
			x0 := left + float64(i)*colW
			v.fillRect(dst, x0, base, x0+colW, base+frac*stripH, SkylineChar, core.ColorWhite)
		}
	}
}

func (g *Game) drawPipes(dst *core.Screen, v viewport) {
	for _, pair := range g.pipes.Pairs() {
		g.drawPipe(dst, v, pair.Bottom, true)
		g.drawPipe(dst, v, pair.Top, false)
	}
}

// drawPipe renders one pipe with a lighter cap on the end facing the gap.
func (g *Game) drawPipe(dst *core.Screen, v viewport, pipe *engine.Node, capOnTop bool) {
	c := pipe.WorldPosition()
	half := pipe.Size.Scale(0.5)
	minX, maxX := c.X-half.X, c.X+half.X
	minY, maxY := c.Y-half.Y, c.Y+half.Y
	v.fillRect(dst, minX, minY, maxX, maxY, PipeChar, core.ColorGreen)

	capH := v.ch
	if capOnTop {
		v.fillRect(dst, minX, maxY-capH, maxX, maxY, PipeChar, core.ColorBrightGreen)
	} else {
		v.fillRect(dst, minX, minY, maxX, minY+capH, PipeChar, core.ColorBrightGreen)
	}
}

func (g *Game) drawGround(dst *core.Screen, v viewport) {
	tileW := g.cfg.Ground.TileWidth
	h := g.cfg.Ground.Height

	for _, tile := range g.ground.Tiles() {
		left := tile.WorldPosition().X - tileW/2
		mid := left + tileW/2
		v.fillRect(dst, left, 0, mid, h, DirtChar, core.ColorOrange)
		v.fillRect(dst, mid, 0, left+tileW, h, DirtAltChar, core.ColorOrange)
		v.fillRect(dst, left, h-v.ch, left+tileW, h, GrassChar, core.ColorBrightGreen)
	}
}

// drawBird draws the wing frame followed by a head pointing along the
// bird's rotation.
func (g *Game) drawBird(dst *core.Screen, v viewport) {
	pos := g.bird.WorldPosition()
	cx, cy := v.col(pos.X), v.row(pos.Y)

	wing := WingDownChar
	if g.wings.frame == 1 {
		wing = WingUpChar
	}
	dst.SetColored(cx-1, cy, wing, core.ColorBrightYellow)
	dst.SetColored(cx, cy, birdHead(g.bird.Rotation), core.ColorBrightYellow)
}

func birdHead(rotation float64) rune {
	switch {
	case rotation > 0.2:
		return HeadRising
	case rotation < -0.3:
		return HeadFalling
	default:
		return HeadLevel
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.SetBackground(x, y, core.ColorBlack)
		}
	}
	dst.DrawBox(box)

	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorBrightWhite)
	dst.DrawTextColored(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle, core.ColorBrightWhite)
}
