package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/thomas-vilte/matereview/internal/cli/registry"
	"github.com/thomas-vilte/matereview/internal/commands/config"
	"github.com/thomas-vilte/matereview/internal/commands/preview"
	"github.com/thomas-vilte/matereview/internal/commands/review"
	"github.com/thomas-vilte/matereview/internal/commands/serve"
	versionCmd "github.com/thomas-vilte/matereview/internal/commands/version"
	cfg "github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/di"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/services"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/thomas-vilte/matereview/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("Error starting the cli: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}
}

func configPath() (string, error) {
	if path := os.Getenv("MATEREVIEW_CONFIG"); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get the user home directory: %w", err)
	}
	return cfg.DefaultPath(homeDir), nil
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	path, err := configPath()
	if err != nil {
		return nil, nil, err
	}

	cfgApp, err := cfg.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, "")
	if err != nil {
		return nil, nil, fmt.Errorf("error loading translations: %w", err)
	}

	container := di.NewContainer(cfgApp, translations)

	reviewerProvider := func(ctx context.Context) (review.Reviewer, error) {
		return container.GetReviewService(ctx)
	}
	previewerProvider := func(ctx context.Context) (preview.Previewer, error) {
		return container.GetReviewService(ctx)
	}
	serveProvider := func(ctx context.Context) (serve.Reviewer, error) {
		return container.GetReviewService(ctx)
	}
	newChecker := func(t *i18n.Translations) versionCmd.UpdateChecker {
		return services.NewVersionChecker(version.FullVersion(), t)
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	factories := map[string]registry.CommandFactory{
		"review":  review.NewReviewCommandFactory(reviewerProvider),
		"preview": preview.NewPreviewCommandFactory(previewerProvider),
		"serve":   serve.NewServeCommandFactory(serveProvider),
		"config":  config.NewConfigCommandFactory(),
		"version": versionCmd.NewVersionCommandFactory(version.FullVersion(), newChecker),
	}
	for name, factory := range factories {
		if err := registerCommand.Register(name, factory); err != nil {
			return nil, nil, fmt.Errorf("error registering command '%s': %w", name, err)
		}
	}

	app := &cli.Command{
		Name:    "matereview",
		Usage:   translations.GetMessage("app_usage", 0, nil),
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("debug_flag_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   translations.GetMessage("verbose_flag_usage", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			l := logger.Initialize(logger.Options{
				Debug:   cmd.Bool("debug"),
				Verbose: cmd.Bool("verbose"),
				Pretty:  !color.NoColor,
			})
			return logger.WithLogger(ctx, l), nil
		},
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
	}

	return app, translations, nil
}
