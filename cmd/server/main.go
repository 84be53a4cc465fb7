package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"brainstorm/internal/app"
	"brainstorm/internal/config"
	"brainstorm/internal/content"
	"brainstorm/internal/model"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "brainstorm",
		Short:         "Real-time multiplayer trivia server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), "")
		},
	}
	cmd.AddCommand(newServeCmd(), newQuestionsCmd())
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	return cmd
}

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (env: PORT)")
	return cmd
}

func newQuestionsCmd() *cobra.Command {
	var (
		topic      string
		count      int
		difficulty string
		options    int
	)
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Generate one question set and print it as JSON",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			qs := a.Pipeline.Generate(ctx, content.Request{
				Topic:       topic,
				Count:       count,
				Difficulty:  model.Difficulty(difficulty),
				OptionCount: options,
			})
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(qs)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&topic, "topic", "t", model.DefaultTopic, "question topic")
	fs.IntVarP(&count, "count", "n", 5, "number of questions")
	fs.StringVarP(&difficulty, "difficulty", "d", string(model.DifficultyMedium), "easy, medium or hard")
	fs.IntVarP(&options, "options", "o", model.DefaultOptionCount, "answer options per question")
	return cmd
}

func serve(ctx context.Context, port string) error {
	log.Println("started")
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Close(closeCtx)
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Operator auth: username=%s", cfg.Auth.Username)
		log.Println("Endpoints:")
		log.Println("  GET  /health")
		log.Println("  WS   /v1/ws")
		log.Println("  GET  /v1/rooms/{code}")
		log.Println("  GET  /v1/rooms/{code}/qr.png")
		log.Println("  GET  /v1/leaderboard?topic=")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/admin/rooms")
		log.Println("  GET  /v1/admin/results")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}
