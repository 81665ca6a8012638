package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// StatusLines is the number of terminal rows below the game area.
const StatusLines = 1

// Game is the contract between a game and the platform.
type Game interface {
	ID() string
	Title() string
	Reset(cfg core.RuntimeConfig)
	Step(in core.InputFrame) core.StepResult
	Render(dst *core.Screen)
	State() core.GameState
}

// SoundPlayer plays the cue for a game event.
type SoundPlayer interface {
	Play(e core.Event)
}

// Options configures a Model. The zero value plays silently without
// recording.
type Options struct {
	Logger *log.Logger
	Sound  SoundPlayer
	// Store receives the recording on quit and on exit. Nil disables saving.
	Store  *storage.Store
	Record bool
	// GameConfig is the game's configuration as YAML, stored with recordings.
	GameConfig []byte
	// Replay, when set, drives the game from a recording instead of the keyboard.
	Replay *replay.Replay
}

// GameArea returns the game screen size for a terminal of the given size.
func GameArea(width, height int) (int, int) {
	return width, max(height-StatusLines, 0)
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       Game
	screen     *core.Screen
	config     core.RuntimeConfig
	opts       Options
	logger     *log.Logger
	keys       *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	rec        *recording
	player     *replay.Player
	finished   bool // Replay played to the end
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game.
// In replay mode the configuration comes from the recording.
func NewModel(game Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		game:       game,
		opts:       opts,
		logger:     logger,
		keys:       NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}

	switch {
	case opts.Replay != nil:
		cfg = opts.Replay.RuntimeConfig()
		m.player = replay.NewPlayer(*opts.Replay)
	case opts.Record:
		m.rec = &recording{
			recorder: replay.NewRecorder(game.ID(), cfg),
			store:    opts.Store,
			logger:   logger,
		}
		m.rec.recorder.SetConfig(opts.GameConfig)
	}

	m.config = cfg
	m.screen = core.NewScreen(cfg.ScreenW, cfg.ScreenH)
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Info("game started",
		"game", m.game.ID(),
		"size", fmt.Sprintf("%dx%d", m.config.ScreenW, m.config.ScreenH),
		"seed", m.config.Seed,
		"replay", m.player != nil,
	)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.player == nil {
			if a := m.keys.MapMouse(msg); a != core.ActionNone {
				m.inputFrame.Set(a)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	if m.player != nil {
		// Playback ignores everything but quit
		if _, isQuit := m.keys.MapKey(msg); isQuit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.rec.save()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize rebuilds the game for the new terminal size.
// The recording restarts with it since a replay has a single screen size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.help.Width = msg.Width

	// A replay keeps its recorded size
	if m.player != nil {
		return m, nil
	}

	w, h := GameArea(msg.Width, msg.Height)
	if w == m.config.ScreenW && h == m.config.ScreenH {
		return m, nil
	}

	m.config.ScreenW = w
	m.config.ScreenH = h
	m.screen.Resize(w, h)
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.inputFrame.Clear()

	if m.rec != nil {
		m.rec.save()
		m.rec.recorder.Restart(m.config)
	}

	m.logger.Debug("resized", "size", fmt.Sprintf("%dx%d", w, h))
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.finished {
		return m, nil
	}

	in := m.inputFrame.Clone()
	if m.player != nil {
		next, ok := m.player.Next()
		if !ok {
			m.finished = true
			m.logger.Info("replay finished", "score", m.gameState.Score)
			return m, nil
		}
		in = next
	}

	if m.rec != nil {
		m.rec.recorder.Record(in)
	}

	result := m.game.Step(in)
	m.gameState = result.State
	for _, e := range result.Events {
		m.handleEvent(e)
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// handleEvent logs a game event and plays its sound.
func (m Model) handleEvent(e core.Event) {
	switch e {
	case core.EventFlap:
		m.logger.Debug("flap")
	default:
		m.logger.Info(e.String(), "score", m.gameState.Score)
	}

	if m.opts.Sound != nil {
		m.opts.Sound.Play(e)
	}
}

// recording is the session's recorder. Model copies share it, so a save
// made through any copy is seen by all of them.
type recording struct {
	recorder *replay.Recorder
	store    *storage.Store
	logger   *log.Logger
	savedID  string
}

// save stores the recording if it has ticks that were not saved yet.
func (r *recording) save() {
	if r == nil || r.store == nil || !r.recorder.Unsaved() {
		return
	}

	rp := r.recorder.Replay()
	if err := r.store.SaveReplay(rp); err != nil {
		r.logger.Error("could not save replay", "error", err)
		return
	}
	r.recorder.MarkSaved()
	r.savedID = rp.ID
	r.logger.Info("replay saved", "id", rp.ID, "ticks", rp.Ticks)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	if m.player == nil {
		return m.help.View(m.keys.Keys())
	}

	tick, total := m.player.Progress()
	r := m.player.Replay()
	status := fmt.Sprintf("replay %s  %d/%d", r.ShortID(), tick, total)
	if m.finished {
		status += "  finished"
	}
	return statusStyle.Render(status + "  •  q quit")
}

// State returns the last game state reported by the game.
func (m Model) State() core.GameState {
	return m.gameState
}

// SavedReplayID returns the ID of the last replay saved, if any.
func (m Model) SavedReplayID() string {
	if m.rec == nil {
		return ""
	}
	return m.rec.savedID
}

// Flush saves whatever was recorded since the last save. Call it when the
// program ends without the quit key, such as a dropped SSH connection.
func (m Model) Flush() {
	m.rec.save()
}

// Finished reports whether a replay has played to the end.
func (m Model) Finished() bool {
	return m.finished
}

// Run starts the Bubble Tea program and returns the final model.
func Run(game Game, cfg core.RuntimeConfig, opts Options) (Model, error) {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	model.Flush()
	if err != nil {
		return model, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return model, nil
}
