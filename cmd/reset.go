package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pitchquiz/pitchquiz/internal/game"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved game, team, league and badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackends(cmd.Context())
		if err != nil {
			return err
		}
		defer b.Close()

		if err := game.ClearProfile(cmd.Context(), b.kv); err != nil {
			return fmt.Errorf("clear saved game: %w", err)
		}
		fmt.Println("Saved game cleared.")
		return nil
	},
}
