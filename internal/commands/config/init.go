package config

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config_init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("force_flag_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "defaults",
				Usage: t.GetMessage("defaults_flag_usage", 0, nil),
			},
		},
		Action: initConfigAction(cfg, t),
	}
}

func initConfigAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		out := command.Root().Writer
		path := cfg.PathFile

		if _, err := os.Stat(path); err == nil && !command.Bool("force") {
			ui.PrintWarning(out, t.GetMessage("config_exists", 0, map[string]interface{}{"Path": path}))
			return nil
		}

		newCfg := config.Default()
		newCfg.PathFile = path
		newCfg.Language = cfg.Language

		if !command.Bool("defaults") {
			reader := bufio.NewReader(command.Root().Reader)
			if err := runSetup(out, reader, newCfg, t); err != nil {
				return err
			}
		}

		if err := config.SaveConfig(newCfg); err != nil {
			return err
		}

		ui.PrintSuccess(out, t.GetMessage("config_created", 0, map[string]interface{}{"Path": path}))
		return nil
	}
}

// runSetup asks for the secrets and the language. Blank answers keep the
// current value.
func runSetup(out io.Writer, reader *bufio.Reader, cfg *config.Config, t *i18n.Translations) error {
	apiKey, err := prompt(out, reader, t.GetMessage("prompt_api_key", 0, nil))
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.AI.APIKey = apiKey
	}

	token, err := prompt(out, reader, t.GetMessage("prompt_github_token", 0, nil))
	if err != nil {
		return err
	}
	if token != "" {
		cfg.GitHub.Token = token
	}

	lang, err := prompt(out, reader, t.GetMessage("prompt_language", 0, map[string]interface{}{
		"Current":   cfg.Language,
		"Supported": strings.Join(config.SupportedLanguages(), ", "),
	}))
	if err != nil {
		return err
	}
	if lang != "" {
		if !config.IsSupportedLanguage(lang) {
			return fmt.Errorf("unsupported language: %s", lang)
		}
		cfg.Language = lang
	}

	return nil
}

func prompt(out io.Writer, reader *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
