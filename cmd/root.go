package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stationboard/pkg/board"
	"stationboard/pkg/config"
	"stationboard/pkg/darwin"
	"stationboard/pkg/telemetry"
)

var (
	configPath  string
	logFile     string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "stationboard",
	Short: "A live departure board for UK railway stations",
	Long: `stationboard queries the National Rail Darwin web service for one
station and keeps its departure board up to date in the terminal.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Board configuration file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9102)")
}

// session is everything one command needs to query the board.
type session struct {
	cfg       *config.Config
	refresher *board.Refresher
	metrics   *telemetry.Server
}

// newSession loads the configuration and wires the Darwin client into a
// refresher. Call close when done.
func newSession() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	client := darwin.NewClient(cfg.SOAP.WSDL, cfg.SOAP.Key, cfg.Display.Rows)

	s := &session{cfg: cfg}
	var opts []board.Option

	if metricsAddr != "" {
		s.metrics = telemetry.NewServer(metricsAddr)
		opts = append(opts, board.WithObserver(telemetry.NewMetrics(s.metrics.Registry())))
		if err := s.metrics.Start(); err != nil {
			return nil, err
		}
		log.Printf("serving metrics on %s/metrics", s.metrics.Addr())
	}

	s.refresher = board.NewRefresher(client, cfg.Station.CRS, opts...)
	return s, nil
}

func (s *session) close() {
	if s.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.metrics.Shutdown(ctx); err != nil {
		log.Printf("metrics shutdown: %v", err)
	}
}

// openLog points the standard logger at --log-file when given.
func openLog() (func(), error) {
	if logFile == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetPrefix("stationboard ")
	return func() { f.Close() }, nil
}
