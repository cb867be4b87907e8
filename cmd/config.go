package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stationboard/pkg/config"
	"stationboard/pkg/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the board configuration",
	Long:  "View the resolved board configuration or write a new one interactively.",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		label := lipgloss.NewStyle().Bold(true).Width(16)
		section := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)

		fmt.Println(section.Render(configPath))
		for _, kv := range [][2]string{
			{"SOAP.key", cfg.MaskedKey()},
			{"SOAP.wsdl", cfg.SOAP.WSDL},
			{"station.crs", cfg.Station.CRS},
			{"display.rows", fmt.Sprint(cfg.Display.Rows)},
			{"display.refresh", cfg.Display.Refresh.String()},
			{"display.colours", fmt.Sprintf("bg %s, head %s, item %s", cfg.Display.BgColour, cfg.Display.HeadFgColour, cfg.Display.ItemFgColour)},
			{"display.padx", fmt.Sprint(cfg.Display.PadX)},
			{"fonts", fmt.Sprintf("%s %d/%d/%d", cfg.Fonts.Name, cfg.Fonts.Normal, cfg.Fonts.Header, cfg.Fonts.Time)},
		} {
			fmt.Println(label.Render(kv[0]) + kv[1])
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a new board configuration interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunConfigInit(configPath)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
