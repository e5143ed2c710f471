package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/midonacion/causabot/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "causabot",
	Short: "Causabot - asistente recomendador de causas benéficas",
	Long: `Causabot es un asistente conversacional que recomienda causas benéficas.

Indexa el catálogo de causas en una base vectorial embebida, recupera las
causas más afines a cada pregunta y genera la respuesta con un modelo de
lenguaje. Sin subcomando arranca el servidor HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: serve the HTTP API
		return runServe()
	},
}

// Execute is the main entry point for the causabot CLI.
func Execute() error {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	slog.SetDefault(initLogger())

	return rootCmd.Execute()
}

// initLogger initializes the structured logger.
//
// Log level is controlled by the DEBUG environment variable:
//   - DEBUG set (any value): debug level logging
//   - DEBUG not set: info level logging
//
// Logs go to stderr so stdout stays clean for command output.
func initLogger() log.Logger {
	return log.New(log.Config{
		Level: logLevel(),
		JSON:  os.Getenv("CAUSABOT_LOG_JSON") != "",
	})
}

func logLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
