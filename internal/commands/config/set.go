package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config_set_usage", 0, nil),
		ArgsUsage: t.GetMessage("config_set_args_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() < 2 {
				ui.PrintError(command.Root().ErrWriter, t.GetMessage("config_set_error_args", 0, nil))
				return fmt.Errorf("missing arguments")
			}

			key := strings.ToLower(command.Args().Get(0))
			value := command.Args().Get(1)

			// Environment overrides must not end up in the file.
			fileCfg, err := config.ReadFile(cfg.PathFile)
			if err != nil {
				return err
			}

			if err := setValue(fileCfg, key, value); err != nil {
				return err
			}

			if err := config.SaveConfig(fileCfg); err != nil {
				return err
			}

			ui.PrintSuccess(command.Root().Writer, t.GetMessage("config_value_set", 0, map[string]interface{}{"Key": key}))
			return nil
		},
	}
}

func setValue(cfg *config.Config, key, value string) error {
	switch key {
	case "lang", "language":
		cfg.Language = value
	case "model":
		cfg.AI.Model = config.Model(value)
	case "api_key", "gemini_api_key":
		cfg.AI.APIKey = value
	case "github_token", "token":
		cfg.GitHub.Token = value
	case "addr":
		cfg.Server.Addr = value
	case "default_ref":
		cfg.Selection.DefaultRef = value
	case "max_files":
		return setInt(&cfg.Selection.MaxFiles, value)
	case "max_file_bytes":
		return setInt(&cfg.Selection.MaxFileBytes, value)
	case "max_total_bytes":
		return setInt(&cfg.Selection.MaxTotalBytes, value)
	case "preview_lines":
		return setInt(&cfg.Selection.PreviewLines, value)
	case "max_content_chars":
		return setInt(&cfg.Prompt.MaxContentChars, value)
	case "cache_size":
		return setInt(&cfg.AI.CacheSize, value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid number: %s", value)
	}
	*dst = n
	return nil
}
