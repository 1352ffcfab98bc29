package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skovsen/D2D_UserLogic/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "roomsim",
	Short: "roomsim simulates users of a lecture room",
	Long: `roomsim walks students and lecturers through the waypoint graph of a room,
following a lecture schedule and reacting to the room temperature.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("room", "testdata/room.geojson", "GeoJSON file with the room graph")
	rootCmd.PersistentFlags().String("config", "", "YAML file with user, field and schedule options")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	s, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(s)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}
