package version

import (
	"context"
	"fmt"
	"io"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/urfave/cli/v3"
)

type UpdateChecker interface {
	CheckForUpdates(ctx context.Context) (string, bool, error)
	PrintUpdateNotification(w io.Writer, latest string)
	PrintUpToDate(w io.Writer)
}

type VersionCommandFactory struct {
	currentVersion string
	newChecker     func(t *i18n.Translations) UpdateChecker
}

func NewVersionCommandFactory(currentVersion string, newChecker func(t *i18n.Translations) UpdateChecker) *VersionCommandFactory {
	return &VersionCommandFactory{
		currentVersion: currentVersion,
		newChecker:     newChecker,
	}
}

func (f *VersionCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: t.GetMessage("version_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: t.GetMessage("check_flag_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			out := command.Root().Writer
			_, _ = fmt.Fprintf(out, "matereview %s\n", f.currentVersion)

			if !command.Bool("check") {
				return nil
			}

			checker := f.newChecker(t)
			latest, available, err := checker.CheckForUpdates(ctx)
			if err != nil {
				// a failed lookup does not fail the command
				logger.Debug(ctx, "update check failed", "error", err)
				ui.PrintWarning(out, t.GetMessage("update_check_failed", 0, map[string]interface{}{"Error": err.Error()}))
				return nil
			}

			if available {
				checker.PrintUpdateNotification(out, latest)
			} else {
				checker.PrintUpToDate(out)
			}
			return nil
		},
	}
}
