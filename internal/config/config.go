package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/spendwise/internal/common"
)

// Defaults applied when neither the config file nor the environment set a key.
const (
	DefaultDatabasePath = "$HOME/.local/share/spendwise/spendwise.db"
	DefaultUserID       = "default"
	DefaultOCREngine    = "gemini"
	DefaultOCRModel     = "gemini-2.5-flash"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// Config is the typed view of the application settings.
type Config struct {
	DatabasePath string
	UserID       string
	OCR          OCRConfig
	Logging      LoggingConfig
	KeepUploads  bool
}

// OCRConfig selects and configures the receipt text recognizer.
type OCRConfig struct {
	Engine        string
	Model         string
	APIKey        string
	TesseractPath string
}

// LoggingConfig controls the global slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("user.id", DefaultUserID)
	v.SetDefault("ocr.engine", DefaultOCREngine)
	v.SetDefault("ocr.model", DefaultOCRModel)
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ingest.keep_uploads", false)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// Load reads the configuration from the global viper instance.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v. Values come from the config file
// or SPENDWISE_ variables first; the OCR API key then falls back to
// GEMINI_API_KEY and GOOGLE_API_KEY.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		UserID:       strings.TrimSpace(v.GetString("user.id")),
		KeepUploads:  v.GetBool("ingest.keep_uploads"),
		OCR: OCRConfig{
			Engine:        strings.ToLower(strings.TrimSpace(v.GetString("ocr.engine"))),
			Model:         v.GetString("ocr.model"),
			APIKey:        v.GetString("ocr.api_key"),
			TesseractPath: ExpandPath(v.GetString("ocr.tesseract_path")),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
	}

	if cfg.OCR.APIKey == "" {
		cfg.OCR.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.OCR.APIKey == "" {
		cfg.OCR.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if c.UserID == "" {
		return fmt.Errorf("%w: user.id", common.ErrMissingConfig)
	}
	switch c.OCR.Engine {
	case "gemini", "tesseract":
	default:
		return fmt.Errorf("%w: ocr.engine must be gemini or tesseract, got %q", common.ErrInvalidConfig, c.OCR.Engine)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
