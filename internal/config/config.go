package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		Language  string          `toml:"language"`
		Server    ServerConfig    `toml:"server"`
		GitHub    GitHubConfig    `toml:"github"`
		AI        AIConfig        `toml:"ai"`
		Selection SelectionConfig `toml:"selection"`
		Prompt    PromptConfig    `toml:"prompt"`

		PathFile string `toml:"-"`
	}

	ServerConfig struct {
		Addr           string   `toml:"addr"`
		ReadTimeout    Duration `toml:"read_timeout"`
		WriteTimeout   Duration `toml:"write_timeout"`
		RequestTimeout Duration `toml:"request_timeout"`
	}

	GitHubConfig struct {
		Token          string   `toml:"token,omitempty"`
		BaseURL        string   `toml:"base_url,omitempty"`
		RequestTimeout Duration `toml:"request_timeout"`
	}

	AIConfig struct {
		Provider        AI       `toml:"provider"`
		APIKey          string   `toml:"api_key,omitempty"`
		Model           Model    `toml:"model"`
		Temperature     float32  `toml:"temperature"`
		MaxOutputTokens int32    `toml:"max_output_tokens"`
		Timeout         Duration `toml:"timeout"`
		CacheSize       int      `toml:"cache_size"`
		CacheTTL        Duration `toml:"cache_ttl"`
	}

	// SelectionConfig holds the knobs of the content-selection pipeline.
	SelectionConfig struct {
		PrimaryExtensions   []string `toml:"primary_extensions"`
		SecondaryExtensions []string `toml:"secondary_extensions"`
		IgnoredDirs         []string `toml:"ignored_dirs"`
		MaxFileBytes        int      `toml:"max_file_bytes"`
		MaxTotalBytes       int      `toml:"max_total_bytes"`
		MaxFiles            int      `toml:"max_files"`
		PreviewLines        int      `toml:"preview_lines"`
		DefaultRef          string   `toml:"default_ref"`
	}

	PromptConfig struct {
		MaxContentChars int `toml:"max_content_chars"`
	}
)

const (
	defaultAddr            = ":8000"
	defaultMaxFileBytes    = 120_000
	defaultMaxTotalBytes   = 500_000
	defaultMaxFiles        = 50
	defaultPreviewLines    = 80
	defaultRef             = "HEAD"
	defaultMaxContentChars = 20_000
	defaultTemperature     = 0.7
	defaultMaxOutputTokens = 2000
	defaultCacheSize       = 256

	configDirName  = ".matereview"
	configFileName = "config.toml"
)

// Duration is a time.Duration that reads and writes as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// Default returns a configuration with every field set to its default value.
func Default() *Config {
	return &Config{
		Language: LangEN,
		Server: ServerConfig{
			Addr:           defaultAddr,
			ReadTimeout:    Duration{15 * time.Second},
			WriteTimeout:   Duration{5 * time.Minute},
			RequestTimeout: Duration{4 * time.Minute},
		},
		GitHub: GitHubConfig{
			RequestTimeout: Duration{15 * time.Second},
		},
		AI: AIConfig{
			Provider:        AIGemini,
			Model:           DefaultModelForAI(AIGemini),
			Temperature:     defaultTemperature,
			MaxOutputTokens: defaultMaxOutputTokens,
			Timeout:         Duration{2 * time.Minute},
			CacheSize:       defaultCacheSize,
			CacheTTL:        Duration{24 * time.Hour},
		},
		Selection: SelectionConfig{
			PrimaryExtensions: []string{
				".py", ".ts", ".tsx", ".js", ".jsx", ".go", ".rs", ".java", ".kt",
				".cs", ".rb", ".php",
			},
			SecondaryExtensions: []string{".md", ".yml", ".yaml", ".toml", ".json"},
			IgnoredDirs: []string{
				"node_modules/", "dist/", "build/", ".venv/", ".git/", "__pycache__/",
			},
			MaxFileBytes:  defaultMaxFileBytes,
			MaxTotalBytes: defaultMaxTotalBytes,
			MaxFiles:      defaultMaxFiles,
			PreviewLines:  defaultPreviewLines,
			DefaultRef:    defaultRef,
		},
		Prompt: PromptConfig{
			MaxContentChars: defaultMaxContentChars,
		},
	}
}

// DefaultPath returns ~/.matereview/config.toml for the given home directory.
func DefaultPath(homeDir string) string {
	return filepath.Join(homeDir, configDirName, configFileName)
}

// LoadConfig reads the TOML file at path (defaults when it does not exist),
// loads a .env file from the working directory if present, applies
// environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("loaded configuration is invalid: %w", err)
	}

	return cfg, nil
}

// ReadFile decodes the TOML file at path over the defaults without looking at
// the environment. A missing file yields the defaults.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}
	cfg.PathFile = path
	return cfg, nil
}

// SaveConfig writes the configuration to its PathFile, creating the directory.
func SaveConfig(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("configuration to save is invalid: %w", err)
	}

	if cfg.PathFile == "" {
		return errors.New("config file path is not defined")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.PathFile), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// 0600: the file may hold API tokens.
	if err := os.WriteFile(cfg.PathFile, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); v != "" {
		cfg.GitHub.Token = v
	}
	if v := firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")); v != "" {
		cfg.AI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); v != "" {
		cfg.AI.Model = Model(v)
	}
	if v := strings.TrimSpace(os.Getenv("MATEREVIEW_LANGUAGE")); v != "" {
		cfg.Language = v
	}
	if v := strings.TrimSpace(os.Getenv("MATEREVIEW_ADDR")); v != "" {
		cfg.Server.Addr = v
	} else if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
}

// Validate checks the invariants the pipeline relies on.
func Validate(cfg *Config) error {
	if cfg.Language == "" {
		return errors.New("language cannot be empty")
	}
	if !IsSupportedLanguage(cfg.Language) {
		return fmt.Errorf("unsupported language: %s", cfg.Language)
	}

	s := cfg.Selection
	if len(s.PrimaryExtensions) == 0 && len(s.SecondaryExtensions) == 0 {
		return errors.New("at least one primary or secondary extension is required")
	}
	for _, ext := range s.PrimaryExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
		for _, other := range s.SecondaryExtensions {
			if strings.EqualFold(ext, other) {
				return fmt.Errorf("extension %q cannot be both primary and secondary", ext)
			}
		}
	}
	for _, ext := range s.SecondaryExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if s.MaxFileBytes <= 0 {
		return errors.New("max_file_bytes must be greater than 0")
	}
	if s.MaxTotalBytes <= 0 {
		return errors.New("max_total_bytes must be greater than 0")
	}
	if s.MaxFiles <= 0 {
		return errors.New("max_files must be greater than 0")
	}
	if s.PreviewLines <= 0 {
		return errors.New("preview_lines must be greater than 0")
	}
	if strings.TrimSpace(s.DefaultRef) == "" {
		return errors.New("default_ref cannot be empty")
	}
	if cfg.Prompt.MaxContentChars <= 0 {
		return errors.New("max_content_chars must be greater than 0")
	}

	switch cfg.AI.Provider {
	case AIGemini:
	default:
		return fmt.Errorf("unsupported AI provider: %s", cfg.AI.Provider)
	}
	if cfg.AI.Model == "" {
		return errors.New("AI model cannot be empty")
	}
	if cfg.AI.CacheSize < 0 {
		return errors.New("cache_size cannot be negative")
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
