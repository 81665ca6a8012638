// Package flappy implements a Flappy Bird-style game.
// The player taps to flap a falling bird through gaps between scrolling pipes.
//
// The scene runs on the engine package: the bird is a dynamic physics body,
// pipes and the ground are static bodies, and every timed behaviour (pipe
// spawning, the crash flash, the death tumble) is a cue timeline.
package flappy

import (
	"math/rand"
	"strconv"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// GameID identifies flappy recordings.
const GameID = "flappy"

// Collision categories.
const (
	CategoryBird  engine.Category = 1 << 0
	CategoryWorld engine.Category = 1 << 1
	CategoryPipe  engine.Category = 1 << 2
	CategoryScore engine.Category = 1 << 3
)

// State is the phase of a run.
type State int

const (
	StateRunning         State = iota // World moving, taps flap
	StateFrozen                       // Crashed, flash in progress
	StateAwaitingRestart              // Flash done, a tap restarts
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateFrozen:
		return "frozen"
	case StateAwaitingRestart:
		return "awaiting-restart"
	default:
		return "unknown"
	}
}

const (
	cueSpawn engine.Cue = iota + 1
	cueFlashRed
	cueFlashWhite
	cueFlashSky
	cueAllowRestart
	cueTumble
	cueStopFlap
)

// Timeline keys.
const (
	keySpawn  = "spawn"
	keyFlash  = "flash"
	keyTumble = "tumble"
)

// Game implements the Flappy Bird game logic.
type Game struct {
	cfg     config.FlappyConfig
	runtime core.RuntimeConfig
	rng     *rand.Rand

	frameW, frameH float64

	world  *engine.World
	scene  *engine.Sequencer // Always advanced: flash, tumble
	timers *engine.Sequencer // Advanced only while the world moves: spawning

	bird     *engine.Node
	birdBody *engine.Body
	wings    flapAnimation

	pipes   *PipeSpawner
	ground  *Scroller
	skyline *Scroller

	state      State
	score      int
	scoreText  string
	background core.Color
	paused     bool
	tickCount  int
	events     []core.Event
}

// New creates a game with the given configuration.
// The scene is built by Reset.
func New(cfg config.FlappyConfig) *Game {
	return &Game{cfg: cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// Reset builds a fresh scene sized to the screen and starts a new run.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.frameW = float64(rc.ScreenW) * g.cfg.Cell.Width
	g.frameH = float64(rc.ScreenH) * g.cfg.Cell.Height

	g.world = engine.NewWorld(engine.V(0, -g.cfg.World.Gravity), g.cfg.World.PointsPerMeter)
	g.scene = engine.NewSequencer()
	g.timers = engine.NewSequencer()
	root := g.world.Root()

	g.skyline = NewScroller("skyline", g.cfg.Skyline, g.frameW, g.cfg.Ground.Height)
	g.skyline.Node().ZPosition = -20
	root.AddChild(g.skyline.Node())

	g.ground = NewScroller("ground", g.cfg.Ground, g.frameW, 0)
	root.AddChild(g.ground.Node())

	// Static collider under the scrolling ground.
	collider := engine.NewNode("ground-collider")
	collider.Position = engine.V(g.frameW/2, g.cfg.Ground.Height/2)
	body := engine.NewStaticBody(engine.Rectangle(g.frameW, g.cfg.Ground.Height))
	body.Category = CategoryWorld
	body.CollisionMask = 0
	collider.SetBody(body)
	root.AddChild(collider)

	g.pipes = NewPipeSpawner(g.cfg.Pipes, g.frameW, g.frameH, g.cfg.Bird.Width)
	root.AddChild(g.pipes.Node())

	g.bird = engine.NewNode("bird")
	g.bird.Size = engine.V(g.cfg.Bird.Width, g.cfg.Bird.Height)
	shape := engine.Circle(g.cfg.Bird.Height / 2)
	g.birdBody = engine.NewBody(shape)
	mass := g.cfg.Bird.Mass
	if mass == 0 {
		mass = engine.AreaMass(shape, g.cfg.World.PointsPerMeter)
	}
	g.birdBody.SetMass(mass)
	g.birdBody.Category = CategoryBird
	g.bird.SetBody(g.birdBody)
	root.AddChild(g.bird)

	g.tickCount = 0
	g.paused = false
	g.events = nil
	g.resetRun()
}

// resetRun puts the bird and the world back to the start of a run.
func (g *Game) resetRun() {
	g.bird.Position = g.birdSpawn()
	g.bird.Rotation = 0
	g.birdBody.SetVelocity(engine.Vec2{})
	g.birdBody.CollisionMask = CategoryWorld | CategoryPipe
	g.birdBody.ContactMask = CategoryWorld | CategoryPipe
	g.wings = flapAnimation{speed: 1}

	g.pipes.Clear()
	g.scene.CancelAll()

	g.state = StateRunning
	g.setScore(0)
	g.background = core.ColorSky

	g.timers.Run(keySpawn, engine.Sequence().
		Do(cueSpawn).
		Wait(g.cfg.Pipes.SpawnInterval).
		RepeatForever())
}

func (g *Game) birdSpawn() engine.Vec2 {
	return engine.V(g.frameW/g.cfg.Bird.XDivisor, g.frameH/2)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = g.events[:0]

	if in.Has(core.ActionPause) && g.MovementActive() {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result()
	}

	if in.Has(core.ActionJump) {
		g.Tap()
	}
	if in.Has(core.ActionRestart) {
		g.Restart()
	}

	dt := g.runtime.TickDuration()
	g.tickCount++

	if g.MovementActive() {
		g.updateBirdRotation()
		g.handleCues(g.timers.Advance(dt))
		g.pipes.Update(dt)
		g.ground.Update(dt)
		g.skyline.Update(dt)
	}

	for _, c := range g.world.Step(dt) {
		g.handleContact(c)
	}

	g.handleCues(g.scene.Advance(dt))
	g.wings.advance(dt, g.cfg.Bird.FlapFrameTime)

	return g.result()
}

func (g *Game) result() core.StepResult {
	var events []core.Event
	if len(g.events) > 0 {
		events = append(events, g.events...)
	}
	return core.StepResult{State: g.State(), Events: events}
}

func (g *Game) emit(e core.Event) {
	g.events = append(g.events, e)
}

// Tap is the single player input: it flaps while the world moves and
// restarts once a finished run allows it. Otherwise it is ignored.
func (g *Game) Tap() {
	switch {
	case g.MovementActive():
		g.birdBody.SetVelocity(engine.Vec2{})
		g.birdBody.ApplyImpulse(engine.V(0, g.cfg.Bird.Impulse))
		g.emit(core.EventFlap)
	case g.CanRestart():
		g.Restart()
	}
}

// Restart begins a new run. It does nothing unless CanRestart.
func (g *Game) Restart() {
	if !g.CanRestart() {
		return
	}
	g.resetRun()
	g.emit(core.EventRestart)
}

// MovementActive reports whether the world is moving.
func (g *Game) MovementActive() bool {
	return g.state == StateRunning
}

// CanRestart reports whether a tap will start a new run.
func (g *Game) CanRestart() bool {
	return g.state == StateAwaitingRestart
}

// Phase returns the current state of the run.
func (g *Game) Phase() State {
	return g.state
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// ScoreText returns the text shown by the score label.
func (g *Game) ScoreText() string {
	return g.scoreText
}

func (g *Game) setScore(s int) {
	g.score = s
	g.scoreText = strconv.Itoa(s)
}

// handleContact reacts to a contact that began this step.
func (g *Game) handleContact(c engine.Contact) {
	if !g.MovementActive() {
		return
	}
	if c.Involves(CategoryScore) {
		g.setScore(g.score + 1)
		g.emit(core.EventScore)
		return
	}
	g.crash()
}

// crash freezes the world and plays the death sequence.
func (g *Game) crash() {
	g.state = StateFrozen
	g.birdBody.CollisionMask = CategoryWorld

	g.scene.Run(keyTumble, engine.Sequence().
		Do(cueTumble).
		Wait(g.cfg.Bird.TumbleTime).
		Do(cueStopFlap))

	flash := engine.Sequence().
		Do(cueFlashRed).
		Wait(g.cfg.Flash.Phase).
		Do(cueFlashWhite).
		Wait(g.cfg.Flash.Phase).
		Do(cueFlashSky)
	g.scene.Run(keyFlash, flash.Repeat(g.cfg.Flash.Repeats).Do(cueAllowRestart))

	g.emit(core.EventCrash)
}

func (g *Game) handleCues(fired []engine.Fired) {
	for _, f := range fired {
		switch f.Cue {
		case cueSpawn:
			g.pipes.Spawn(g.rng)
		case cueFlashRed:
			g.background = core.ColorRed
		case cueFlashWhite:
			g.background = core.ColorBrightWhite
		case cueFlashSky:
			g.background = core.ColorSky
		case cueAllowRestart:
			if g.state == StateFrozen {
				g.state = StateAwaitingRestart
			}
		case cueTumble:
			g.bird.Rotation += g.cfg.Bird.TumbleAngle
		case cueStopFlap:
			g.wings.speed = 0
		}
	}
}

// updateBirdRotation tilts the bird with its vertical velocity:
// nose down when falling, nose up when rising.
func (g *Game) updateBirdRotation() {
	vy := g.birdBody.Velocity().Y
	factor := g.cfg.Bird.RiseFactor
	if vy < 0 {
		factor = g.cfg.Bird.FallFactor
	}
	g.bird.Rotation = core.ClampF(vy*factor, g.cfg.Bird.MinRotation, g.cfg.Bird.MaxRotation)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:      g.score,
		GameOver:   g.state != StateRunning,
		CanRestart: g.CanRestart(),
		Paused:     g.paused,
	}
}

// flapAnimation cycles the two wing frames.
type flapAnimation struct {
	frame   int
	elapsed float64
	speed   float64 // 0 stops the animation
}

func (a *flapAnimation) advance(dt, frameTime float64) {
	a.elapsed += dt * a.speed
	for a.elapsed+1e-9 >= frameTime {
		a.elapsed -= frameTime
		a.frame = 1 - a.frame
	}
}
