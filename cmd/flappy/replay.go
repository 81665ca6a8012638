package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Watch a recorded game",
	Long: `Play back a recorded game. The id may be any unique prefix of the
replay id shown by 'flappy replays'.

The replay uses the screen size and game config it was recorded with.
Replays saved before configs were recorded fall back to --config.

Examples:
  flappy replay 3f2a9c1e`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		fatal("%v", err)
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening replay database: %v", err)
	}
	defer store.Close()

	rec, err := store.Replay(args[0])
	switch {
	case errors.Is(err, storage.ErrReplayNotFound):
		fatal("no replay matches %q. Run 'flappy replays' to list them.", args[0])
	case errors.Is(err, storage.ErrAmbiguousReplayID):
		fatal("%q matches more than one replay, use a longer id", args[0])
	case err != nil:
		fatal("loading replay: %v", err)
	}

	gameCfg, err := replayConfig(rec.Config)
	if err != nil {
		fatal("%v", err)
	}

	final, err := tui.Run(flappy.New(gameCfg), rec.RuntimeConfig(), tui.Options{
		Logger: logger,
		Replay: &rec,
	})
	if err != nil {
		fatal("running replay: %v", err)
	}

	fmt.Printf("Replay %s: score %d\n", rec.ShortID(), final.State().Score)
}

// replayConfig parses the config stored with a replay, or loads the current
// one for replays recorded without it.
func replayConfig(stored []byte) (config.FlappyConfig, error) {
	if len(stored) == 0 {
		return config.LoadFlappy(flagConfig)
	}
	cfg, err := config.Parse(stored)
	if err != nil {
		return config.FlappyConfig{}, fmt.Errorf("replay config: %w", err)
	}
	return cfg, nil
}
