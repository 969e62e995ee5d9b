package config

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			out := command.Root().Writer

			shown := *cfg
			shown.AI.APIKey = maskSecret(cfg.AI.APIKey)
			shown.GitHub.Token = maskSecret(cfg.GitHub.Token)

			ui.PrintKeyValue(out, t.GetMessage("config_path_label", 0, nil), cfg.PathFile)
			_, _ = fmt.Fprintln(out)
			if err := toml.NewEncoder(out).Encode(shown); err != nil {
				return fmt.Errorf("error encoding configuration: %w", err)
			}
			return nil
		},
	}
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
