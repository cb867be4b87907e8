package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"stationboard/pkg/board"
	"stationboard/pkg/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current departures to an ICS file",
	Long:  `Query the board once and write every departure as a calendar event.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

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

		if output == "" {
			output = fmt.Sprintf("departures_%s.ics", strings.ToLower(s.cfg.Station.CRS))
		}

		// Board times are always UK local time
		loc, err := time.LoadLocation("Europe/London")
		if err != nil {
			return fmt.Errorf("failed to load UK timezone: %w", err)
		}

		var state board.State
		_ = spinner.New().
			Title(fmt.Sprintf("Exporting departures for %s to %s...", s.cfg.Station.CRS, output)).
			Action(func() {
				state = s.refresher.Cycle(cmd.Context())
			}).
			Run()

		if state.Failed() {
			return fmt.Errorf("web service error: %w", state.Err)
		}

		if len(state.Departures) == 0 {
			return fmt.Errorf("no departures found for %s", s.cfg.Station.CRS)
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		err = exporter.GenerateICS(state, loc, file)
		if err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d departures to %s\n", len(state.Departures), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "Output file path (default departures_<crs>.ics)")
}
