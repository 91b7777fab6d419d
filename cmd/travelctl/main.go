package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"example.com/ai-travel-planner/internal/client"
)

type rootOptions struct {
	serverURL string
	token     string
	timeout   time.Duration
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "travelctl",
		Short:        "Command line companion for the AI travel planner",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.serverURL, "server", envOr("TRAVEL_API_URL", "http://localhost:5000"), "planner API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("TRAVEL_API_TOKEN"), "session token sent as Bearer")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "request timeout")

	root.AddCommand(
		newModelsCommand(),
		newPlanCommand(opts),
		newTripsCommand(opts),
		newTokenCommand(),
	)

	return root
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.serverURL, o.token, o.timeout)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func printJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
