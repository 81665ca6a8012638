package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var flagReplayLimit int

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List recorded games",
	Long: `Display the most recent recorded games, newest first.

Examples:
  flappy replays
  flappy replays --limit 50`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

func init() {
	replaysCmd.Flags().IntVar(&flagReplayLimit, "limit", 10, "Number of replays to show")
}

func runReplays(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening replay database: %v", err)
	}
	defer store.Close()

	replays, err := store.RecentReplays(flappy.GameID, flagReplayLimit)
	if err != nil {
		fatal("retrieving replays: %v", err)
	}

	fmt.Println("Recent Replays")
	fmt.Println()

	if len(replays) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to record one!")
		return
	}

	// Print header
	fmt.Printf("  %-8s  %-16s  %-8s  %-7s  %s\n", "ID", "Date", "Length", "Screen", "Seed")
	fmt.Printf("  %-8s  %-16s  %-8s  %-7s  %s\n", "--", "----", "------", "------", "----")

	for _, r := range replays {
		fmt.Printf("  %-8s  %-16s  %-8s  %-7s  %d\n",
			r.ShortID(),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Duration().Round(100*time.Millisecond).String(),
			fmt.Sprintf("%dx%d", r.ScreenW, r.ScreenH),
			r.Seed,
		)
	}
}
