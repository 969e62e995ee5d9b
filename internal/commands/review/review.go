package review

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/thomas-vilte/matereview/internal/vcs"
	"github.com/urfave/cli/v3"
)

type Reviewer interface {
	Review(ctx context.Context, req models.ReviewRequest) (models.ReviewResult, error)
}

// ReviewerProvider builds the reviewer lazily, so other commands never
// touch the AI configuration.
type ReviewerProvider func(ctx context.Context) (Reviewer, error)

type ReviewCommandFactory struct {
	reviewerProvider ReviewerProvider
}

func NewReviewCommandFactory(reviewerProvider ReviewerProvider) *ReviewCommandFactory {
	return &ReviewCommandFactory{reviewerProvider: reviewerProvider}
}

func (f *ReviewCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "review",
		Aliases: []string{"r"},
		Usage:   t.GetMessage("review_usage", 0, nil),
		Flags:   f.createFlags(t),
		Action:  f.createAction(t, cfg),
	}
}

func (f *ReviewCommandFactory) createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "url",
			Aliases:  []string{"u"},
			Usage:    t.GetMessage("url_flag_usage", 0, nil),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "assignment",
			Aliases:  []string{"a"},
			Usage:    t.GetMessage("assignment_flag_usage", 0, nil),
			Required: true,
		},
		&cli.StringFlag{
			Name:    "level",
			Aliases: []string{"l"},
			Usage:   t.GetMessage("level_flag_usage", 0, nil),
			Value:   string(models.LevelMid),
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: t.GetMessage("json_flag_usage", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "usage",
			Usage: t.GetMessage("usage_flag_usage", 0, nil),
		},
	}
}

func (f *ReviewCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		out := command.Root().Writer
		errOut := command.Root().ErrWriter

		req := models.ReviewRequest{
			AssignmentDescription: command.String("assignment"),
			RepositoryURL:         command.String("url"),
			CandidateLevel:        models.CandidateLevel(command.String("level")),
		}

		reviewer, err := f.reviewerProvider(ctx)
		if err != nil {
			return err
		}

		repo := req.RepositoryURL
		if ref, err := vcs.ParseRepositoryURL(req.RepositoryURL, cfg.Selection.DefaultRef); err == nil {
			repo = ref.String()
		}

		var result models.ReviewResult
		err = ui.WithSpinnerAndDuration(errOut,
			t.GetMessage("reviewing_repository", 0, map[string]interface{}{"Repo": repo}),
			t.GetMessage("review_done", 0, nil),
			func() error {
				var reviewErr error
				result, reviewErr = reviewer.Review(ctx, req)
				return reviewErr
			})
		if err != nil {
			return err
		}

		if command.Bool("json") {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("error encoding review: %w", err)
			}
		} else {
			ui.PrintReview(out, repo, result, t)
		}

		if command.Bool("usage") {
			ui.PrintTokenUsage(errOut, result.Usage, t)
		}
		return nil
	}
}
