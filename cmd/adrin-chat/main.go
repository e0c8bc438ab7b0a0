// adrin-chat - terminal chat client for the Dr. Adrin receptionist
package main

import (
	"log/slog"
	"os"

	"github.com/ashureev/adrin-chat/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "adrin-chat",
	Short:             "Chat with the Dr. Adrin receptionist over WebSocket",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runChat,
}

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a scripted receptionist at /ws for local development",
	RunE:  runMockServer,
}

var (
	flagURL            string
	flagGreeting       string
	flagReconnectDelay string
	flagRetryDelay     string
	flagLogLevel       string
	flagAddr           string

	cfg *config.Config
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")

	chatFlags := rootCmd.Flags()
	chatFlags.StringVar(&flagURL, "url", "", "chat WebSocket URL (env CHAT_SERVER_URL)")
	chatFlags.StringVar(&flagGreeting, "greeting", "", "greeting shown on every connect (env CHAT_GREETING)")
	chatFlags.StringVar(&flagReconnectDelay, "reconnect-delay", "", "delay before reconnecting, e.g. 3s (env CHAT_RECONNECT_DELAY)")
	chatFlags.StringVar(&flagRetryDelay, "retry-delay", "", "delay between send retries, e.g. 1s (env CHAT_SEND_RETRY_DELAY)")

	mockServerCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (env MOCK_SERVER_ADDR)")

	rootCmd.AddCommand(mockServerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// setup loads .env and the environment, applies flag overrides, and installs
// the JSON logger. Logs go to stderr; stdout carries the transcript.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	overrides := map[string]string{
		"CHAT_SERVER_URL":       flagURL,
		"CHAT_GREETING":         flagGreeting,
		"CHAT_RECONNECT_DELAY":  flagReconnectDelay,
		"CHAT_SEND_RETRY_DELAY": flagRetryDelay,
		"LOG_LEVEL":             flagLogLevel,
		"MOCK_SERVER_ADDR":      flagAddr,
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return nil
}
