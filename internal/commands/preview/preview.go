package preview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/selection"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/urfave/cli/v3"
)

type Previewer interface {
	Preview(ctx context.Context, rawURL string) (models.RenderedDocument, error)
}

type PreviewerProvider func(ctx context.Context) (Previewer, error)

type PreviewCommandFactory struct {
	previewerProvider PreviewerProvider
}

func NewPreviewCommandFactory(previewerProvider PreviewerProvider) *PreviewCommandFactory {
	return &PreviewCommandFactory{previewerProvider: previewerProvider}
}

func (f *PreviewCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "preview",
		Aliases: []string{"p"},
		Usage:   t.GetMessage("preview_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    t.GetMessage("url_flag_usage", 0, nil),
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "tree",
				Usage: t.GetMessage("tree_flag_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("json_flag_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			out := command.Root().Writer

			previewer, err := f.previewerProvider(ctx)
			if err != nil {
				return err
			}

			var doc models.RenderedDocument
			err = ui.WithSpinnerAndDuration(command.Root().ErrWriter,
				t.GetMessage("fetching_repository", 0, map[string]interface{}{"Repo": command.String("url")}),
				t.GetMessage("preview_done", 0, nil),
				func() error {
					var previewErr error
					doc, previewErr = previewer.Preview(ctx, command.String("url"))
					return previewErr
				})
			if err != nil {
				return err
			}

			switch {
			case command.Bool("json"):
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(doc); err != nil {
					return fmt.Errorf("error encoding preview: %w", err)
				}
			case command.Bool("tree"):
				ui.ShowFilesTree(out, doc.Entries, t.GetMessage("selected_files_header", 0, nil))
				ui.PrintInfo(out, t.GetMessage("files_included", doc.FilesIncluded, map[string]interface{}{
					"Count": doc.FilesIncluded,
					"Bytes": doc.TotalBytes,
				}))
				if doc.Truncated {
					ui.PrintWarning(out, t.GetMessage("truncated_warning", 0, nil))
				}
				ui.PrintDependencies(out, doc.Dependencies, t.GetMessage("dependencies_header", 0, nil))
			default:
				_, _ = fmt.Fprint(out, selection.FormatDocument(doc))
			}
			return nil
		},
	}
}
