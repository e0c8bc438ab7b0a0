package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashureev/adrin-chat/internal/chat"
	"github.com/ashureev/adrin-chat/internal/config"
	"github.com/ashureev/adrin-chat/internal/mockserver"
	"github.com/spf13/cobra"
)

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return chatSession(ctx, cfg, os.Stdin, os.Stdout, slog.Default())
}

// chatSession connects, feeds each input line through the compose form, and
// returns when input ends or ctx is cancelled.
func chatSession(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) error {
	transcript := chat.NewTranscript(chat.NewTerminalView(out), logger)
	client := chat.NewClient(transcript, chat.Options{
		URL:            cfg.ServerURL,
		Greeting:       cfg.Greeting,
		ReconnectDelay: cfg.ReconnectDelay,
		RetryDelay:     cfg.SendRetryDelay,
		DialTimeout:    cfg.DialTimeout,
		ReadLimit:      cfg.ReadLimit,
		Logger:         logger,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close chat client", "error", err)
		}
	}()

	logger.Info("Starting chat client", "url", cfg.ServerURL)
	client.Connect()

	form := chat.NewForm(client)
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Chat interrupted")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read input: %w", err)
				}
				return nil
			}
			form.SetValue(line)
			form.Submit()
		}
	}
}

func runMockServer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := mockserver.New(cfg.MockServer, nil, slog.Default())
	if err := srv.Run(ctx); err != nil {
		return err
	}
	slog.Info("Server stopped successfully")
	return nil
}
