package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/movie-review/internal/app"
	"github.com/Clark-Hu/movie-review/internal/config"
	"github.com/Clark-Hu/movie-review/internal/domain"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ratings store if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			if _, _, err := ctx.openService(cmd.Context(), false); err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			location := cfg.DBPath
			if cfg.DBDriver == config.DriverPostgres {
				location = "postgres"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ratings store ready (%s)\n", location)
			return nil
		},
	}
}

func newRateCommand(ctx *commandContext) *cobra.Command {
	var userFlag string
	var scoreFlag string

	cmd := &cobra.Command{
		Use:   "rate <movie-id>",
		Short: "Record a rating between 0 and 5 for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := app.ParseRatingInput(userFlag, args[0], scoreFlag)
			if err != nil {
				return invalidInput(err)
			}

			defer ctx.close()
			svc, _, err := ctx.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			if _, err := svc.Rate(cmd.Context(), input); err != nil {
				if errors.Is(err, domain.ErrValidation) {
					return invalidInput(err)
				}
				return fmt.Errorf("save rating: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Rating saved!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID")
	cmd.Flags().StringVarP(&scoreFlag, "score", "s", "", "Rating (0-5)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}

func newRatingCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rating <movie-id>",
		Short: "Show the average rating for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := domain.ParseMovieLabel(args[0])
			if err != nil {
				return invalidInput(err)
			}

			defer ctx.close()
			svc, _, err := ctx.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			agg, err := svc.Rating(cmd.Context(), movieID)
			if err != nil {
				return fmt.Errorf("fetch rating: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"movieId": movieID,
					"average": agg.Average,
					"count":   agg.Count,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Average Rating: %.2f (%s)\n", agg.Average, describeCount(agg.Count))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newRatingsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ratings <movie-id>",
		Short: "List every stored rating for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := domain.ParseMovieLabel(args[0])
			if err != nil {
				return invalidInput(err)
			}

			defer ctx.close()
			svc, _, err := ctx.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			ratings, err := svc.History(cmd.Context(), movieID)
			if err != nil {
				return fmt.Errorf("list ratings: %w", err)
			}
			if len(ratings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No ratings yet.")
				return nil
			}

			rows := make([][]string, 0, len(ratings))
			for _, rating := range ratings {
				rows = append(rows, []string{
					strconv.FormatInt(rating.ID, 10),
					strconv.FormatInt(rating.UserID, 10),
					strconv.FormatFloat(rating.Score, 'f', -1, 64),
					rating.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "User", "Score", "Rated At"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func invalidInput(err error) error {
	return fmt.Errorf("invalid input, please check your entries: %w", err)
}

func describeCount(count int64) string {
	switch count {
	case 0:
		return "no ratings yet"
	case 1:
		return "1 rating"
	default:
		return fmt.Sprintf("%d ratings", count)
	}
}
