// Package config loads formschema CLI settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FORMSCHEMA_LOG_LEVEL.
const EnvPrefix = "FORMSCHEMA"

// Config holds CLI configuration.
type Config struct {
	Forms  FormsConfig
	Locale string
	Log    LogConfig
	Output OutputConfig
}

// FormsConfig says where form documents live.
type FormsConfig struct {
	Dir        string
	Predicates []string
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level    string
	Encoding string
}

// OutputConfig controls printed output.
type OutputConfig struct {
	Style string
}

// Output styles.
const (
	StyleColor = "color"
	StylePlain = "plain"
	StyleJSON  = "json"
)

// Load reads configuration from file and env. An explicit path wins over
// FORMSCHEMA_CONFIG, which wins over ./formschema.yaml and
// $HOME/.config/formschema/config.yaml. A missing default file is not an
// error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("forms.dir", "forms")
	v.SetDefault("forms.predicates", []string{})
	v.SetDefault("locale", "en")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("output.style", StyleColor)

	v.SetConfigType("yaml")

	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG"))
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("formschema")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "formschema"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c.normalize()
}

func (c Config) normalize() (Config, error) {
	c.Locale = strings.TrimSpace(c.Locale)
	c.Output.Style = strings.ToLower(strings.TrimSpace(c.Output.Style))
	switch c.Output.Style {
	case StyleColor, StylePlain, StyleJSON:
	default:
		return Config{}, fmt.Errorf("config: unknown output style %q (want %s, %s or %s)", c.Output.Style, StyleColor, StylePlain, StyleJSON)
	}
	return c, nil
}
