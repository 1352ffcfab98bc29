package main

import (
	"fmt"

	"github.com/spf13/cobra"

	userlogic "github.com/skovsen/D2D_UserLogic"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the room and config files",
	RunE: func(cmd *cobra.Command, args []string) error {
		room, cfg, err := loadInputs(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "room: %d vertices, %d doors, %d seats, %d tablets\n",
			len(room.Vertices()), len(room.Doors()), len(room.Seats()), len(room.Tablets()))
		centre, area := room.Area()
		fmt.Fprintf(cmd.OutOrStdout(), "floor: %.1f m² around (%.1f, %.1f)\n", area, centre.X(), centre.Y())
		fmt.Fprintf(cmd.OutOrStdout(), "schedule: %d phases, %s\n", len(cfg.Schedule.Phases), cfg.Schedule.Total())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func loadInputs(cmd *cobra.Command) (*userlogic.RoomGraph, userlogic.Config, error) {
	roomPath, _ := cmd.Flags().GetString("room")
	configPath, _ := cmd.Flags().GetString("config")

	room, err := userlogic.LoadRoom(roomPath)
	if err != nil {
		return nil, userlogic.Config{}, err
	}

	cfg := userlogic.DefaultConfig()
	if configPath != "" {
		if cfg, err = userlogic.LoadConfig(configPath); err != nil {
			return nil, userlogic.Config{}, err
		}
	}
	return room, cfg, nil
}
