package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagSound    bool
	flagVolume   float64
	flagNoRecord bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing Flappy.

Controls:
  Space/Up/Click  - Flap
  R/Enter         - Restart (after the crash flash)
  P/Esc           - Pause
  Ctrl+S          - Screenshot
  Q/Ctrl+C        - Quit

Every session is recorded and saved on quit; use --no-record to skip it.

Examples:
  flappy play
  flappy play --sound
  flappy play --seed 42 --fps 30
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 0.5, "Sound volume (0-1)")
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not record a replay")
}

// terminalArea returns the game screen size for the current terminal.
func terminalArea() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return tui.GameArea(width, height)
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		fatal("%v", err)
	}
	defer closeLog()

	gameCfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		fatal("%v", err)
	}

	w, h := terminalArea()
	cfg := core.RuntimeConfig{
		ScreenW:  w,
		ScreenH:  h,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	opts := tui.Options{
		Logger: logger,
		Record: !flagNoRecord,
	}
	if opts.GameConfig, err = config.Marshal(gameCfg); err != nil {
		fatal("%v", err)
	}

	if !flagNoRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			// Continue without storage - game still works
			fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
		} else {
			defer store.Close()
			opts.Store = store
		}
	}

	if flagSound {
		sm := audio.NewSoundManager(flagVolume)
		if err := sm.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not start audio: %v\n", err)
		} else {
			defer sm.Cleanup()
			opts.Sound = sm
		}
	}

	final, err := tui.Run(flappy.New(gameCfg), cfg, opts)
	if err != nil {
		fatal("running game: %v", err)
	}

	fmt.Printf("Score: %d\n", final.State().Score)
	if id := final.SavedReplayID(); id != "" {
		fmt.Printf("Replay saved: %s\n", id)
	}
}
