package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/config"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/telemetry"
)

const serviceName = "bellaciao-guestbook"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "guestbook",
	Short: "Bella Ciao guest feedback backend",
	Long: `Serves the guest feedback form and the password-protected admin dashboard API.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			// Environment variables may come from the platform instead
			log.Debug().Msg("No .env file found")
		}
		cfg = config.Load()
		telemetry.InitLogger(serviceName, cfg.Environment)
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, exportCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
