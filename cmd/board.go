package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"stationboard/pkg/board"
	"stationboard/pkg/tui"
)

var plain bool

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the live departure board",
	Long: `Open a full-screen departure board for the configured station. The board
is refreshed every display.refresh interval until Esc is pressed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Anything written to the terminal would tear the full-screen board
		if plain {
			closeLog, err := openLog()
			if err != nil {
				return err
			}
			defer closeLog()
		} else if logFile != "" {
			f, err := tea.LogToFile(logFile, "stationboard")
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
		} else {
			log.SetOutput(io.Discard)
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		styles := tui.NewStyles(s.cfg.Display, s.cfg.Fonts)
		interval := s.cfg.Display.Refresh

		if !plain {
			return tui.RunBoard(ctx, s.refresher, interval, styles)
		}

		err = s.refresher.Run(ctx, interval, func(state board.State) {
			fmt.Println(tui.RenderBoard(state, styles, time.Now()))
			fmt.Println()
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVar(&plain, "plain", false, "Print each refresh to stdout instead of drawing a full-screen board")
}
