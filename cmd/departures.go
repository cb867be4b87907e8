package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"stationboard/pkg/board"
	"stationboard/pkg/tui"
)

var departuresCmd = &cobra.Command{
	Use:   "departures",
	Short: "Print the current departures once",
	RunE: func(cmd *cobra.Command, args []string) error {
		closeLog, err := openLog()
		if err != nil {
			return err
		}
		defer closeLog()

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		var state board.State
		_ = spinner.New().
			Title(fmt.Sprintf("Fetching departures for %s...", s.cfg.Station.CRS)).
			Action(func() {
				state = s.refresher.Cycle(cmd.Context())
			}).
			Run()

		if state.Failed() {
			return fmt.Errorf("web service error: %w", state.Err)
		}

		fmt.Println(tui.RenderBoard(state, tui.NewStyles(s.cfg.Display, s.cfg.Fonts), time.Now()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(departuresCmd)
}
