package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/movie-review/internal/domain"
	"github.com/Clark-Hu/movie-review/internal/tmdb"
)

const trailerNotAvailable = "Trailer not available."

type movieJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Label       string `json:"label"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the movie database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			svc, _, err := ctx.openService(cmd.Context(), true)
			if err != nil {
				return err
			}

			movies, err := svc.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if jsonOutput {
				items := make([]movieJSON, 0, len(movies))
				for _, movie := range movies {
					items = append(items, movieJSON{ID: movie.ID, Title: movie.Title, ReleaseDate: movie.ReleaseDate, Label: movie.Label()})
				}
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(movies) == 0 {
				fmt.Fprintln(out, "No movies found.")
				return nil
			}
			rows := make([][]string, 0, len(movies))
			for _, movie := range movies {
				rows = append(rows, []string{strconv.FormatInt(movie.ID, 10), movie.Title, movie.ReleaseDate})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Released"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newTrailerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "trailer <movie-id>",
		Short: "Print the trailer URL for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := domain.ParseMovieLabel(args[0])
			if err != nil {
				return err
			}

			defer ctx.close()
			svc, _, err := ctx.openService(cmd.Context(), true)
			if err != nil {
				return err
			}

			trailer, err := svc.Trailer(cmd.Context(), movieID)
			if errors.Is(err, tmdb.ErrNotAvailable) {
				fmt.Fprintln(cmd.OutOrStdout(), trailerNotAvailable)
				return nil
			}
			if err != nil {
				return fmt.Errorf("trailer lookup failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), trailer.URL)
			return nil
		},
	}
}
