package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"brainstorm/internal/app"
	"brainstorm/internal/config"
	"brainstorm/internal/content"
	"brainstorm/internal/model"
)

var defaultTopics = []string{
	model.DefaultTopic,
	"Geography",
	"Science",
	"History",
	"Sports",
	"Movies",
}

// seed pre-generates question sets for common topics into the shared cache
func main() {
	_ = godotenv.Load()

	var (
		count   int
		options int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:           "seed [topic...]",
		Short:         "Pre-generate question sets into the Redis cache",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := args
			if len(topics) == 0 {
				topics = defaultTopics
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.RedisURI == "" {
				return errors.New("REDIS_URI must be set to seed the shared cache")
			}
			if !cfg.AI.IsEnabled() {
				log.Println("Warning: GEMINI_API_KEY not set, fallback questions are not cached")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			for _, topic := range topics {
				for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
					qs := a.Pipeline.Generate(ctx, content.Request{
						Topic:       topic,
						Count:       count,
						Difficulty:  d,
						OptionCount: options,
					})
					fmt.Printf("%-20s %-6s %d questions\n", topic, d, len(qs))
				}
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVarP(&count, "count", "n", model.DefaultQuestionCount, "questions per set")
	fs.IntVarP(&options, "options", "o", model.DefaultOptionCount, "answer options per question")
	fs.DurationVar(&timeout, "timeout", 10*time.Minute, "overall deadline")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
