package flappy

import (
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// PipePair is one obstacle: a bottom pipe, a top pipe and the invisible
// score trigger just past them, all positioned relative to Node.
type PipePair struct {
	Node    *engine.Node
	Bottom  *engine.Node
	Top     *engine.Node
	Trigger *engine.Node

	travelled float64
}

// PipeSpawner handles spawning, movement, and removal of pipe pairs.
// Pairs live under a single container node in spawn order.
type PipeSpawner struct {
	cfg       config.PipesConfig
	frameW    float64
	frameH    float64
	birdWidth float64

	container *engine.Node
	pairs     []*PipePair
	spawned   int
}

// NewPipeSpawner creates an empty spawner for a frame of the given size.
func NewPipeSpawner(cfg config.PipesConfig, frameW, frameH, birdWidth float64) *PipeSpawner {
	return &PipeSpawner{
		cfg:       cfg,
		frameW:    frameW,
		frameH:    frameH,
		birdWidth: birdWidth,
		container: engine.NewNode("pipes"),
		pairs:     make([]*PipePair, 0, 4),
	}
}

// Node returns the container all pairs are parented under.
func (ps *PipeSpawner) Node() *engine.Node {
	return ps.container
}

// Distance returns how far a pair travels before it is removed.
func (ps *PipeSpawner) Distance() float64 {
	return ps.frameW + 2*ps.cfg.Width
}

// Speed returns the pipes' leftward speed in points per second.
func (ps *PipeSpawner) Speed() float64 {
	return 1 / ps.cfg.MoveDurationPerPoint
}

// Spawn adds a pair just past the right edge with a random vertical offset
// in [0, frameH/3).
func (ps *PipeSpawner) Spawn(rng *rand.Rand) *PipePair {
	y := 0.0
	if n := int(ps.frameH / 3); n > 0 {
		y = float64(rng.Intn(n))
	}

	pair := &PipePair{Node: engine.NewNode("pipe-pair")}
	pair.Node.Position = engine.V(ps.frameW+ps.cfg.Width, 0)
	pair.Node.ZPosition = -10

	pair.Bottom = ps.newPipe("pipe-bottom", y)
	pair.Top = ps.newPipe("pipe-top", y+ps.cfg.Height+ps.cfg.Gap)

	pair.Trigger = engine.NewNode("score")
	pair.Trigger.Position = engine.V(ps.cfg.Width+ps.birdWidth/2, ps.frameH/2)
	trigger := engine.NewStaticBody(engine.Rectangle(ps.cfg.Width, ps.frameH))
	trigger.Category = CategoryScore
	trigger.CollisionMask = 0
	trigger.ContactMask = CategoryBird
	trigger.Sensor = true
	pair.Trigger.SetBody(trigger)

	pair.Node.AddChild(pair.Bottom)
	pair.Node.AddChild(pair.Top)
	pair.Node.AddChild(pair.Trigger)

	ps.container.AddChild(pair.Node)
	ps.pairs = append(ps.pairs, pair)
	ps.spawned++
	return pair
}

func (ps *PipeSpawner) newPipe(name string, centerY float64) *engine.Node {
	n := engine.NewNode(name)
	n.Position = engine.V(0, centerY)
	n.Size = engine.V(ps.cfg.Width, ps.cfg.Height)
	body := engine.NewStaticBody(engine.Rectangle(ps.cfg.Width, ps.cfg.Height))
	body.Category = CategoryPipe
	body.CollisionMask = 0
	body.ContactMask = CategoryBird
	n.SetBody(body)
	return n
}

// Update moves every pair left and removes the ones that finished their run.
func (ps *PipeSpawner) Update(dt float64) {
	step := ps.Speed() * dt
	distance := ps.Distance()

	active := ps.pairs[:0]
	for _, p := range ps.pairs {
		move := step
		if p.travelled+move > distance {
			move = distance - p.travelled
		}
		p.travelled += move
		p.Node.Position.X -= move

		if p.travelled >= distance-1e-9 {
			p.Node.RemoveFromParent()
			continue
		}
		active = append(active, p)
	}
	for i := len(active); i < len(ps.pairs); i++ {
		ps.pairs[i] = nil
	}
	ps.pairs = active
}

// Clear removes every pair.
func (ps *PipeSpawner) Clear() {
	ps.container.RemoveAllChildren()
	for i := range ps.pairs {
		ps.pairs[i] = nil
	}
	ps.pairs = ps.pairs[:0]
}

// Pairs returns the live pairs, oldest first.
func (ps *PipeSpawner) Pairs() []*PipePair {
	return ps.pairs
}

// Spawned returns how many pairs have been created since the spawner was built.
func (ps *PipeSpawner) Spawned() int {
	return ps.spawned
}
