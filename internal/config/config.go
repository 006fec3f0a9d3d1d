// Package config loads MoodTunes configuration from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/justestif/moodtunes/internal/capture"
	"github.com/justestif/moodtunes/internal/mood"
)

// EnvPrefix prefixes every environment variable, e.g. MOODTUNES_THRESHOLD.
const EnvPrefix = "MOODTUNES"

// ErrMissingCredentials is returned when Spotify credentials are needed but not set.
var ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET")

// Config holds all runtime configuration.
type Config struct {
	HTTPAddress     string           `mapstructure:"http_address"`
	Threshold       float64          `mapstructure:"threshold"`
	CaptureDelay    time.Duration    `mapstructure:"capture_delay"`
	CatalogPath     string           `mapstructure:"catalog_path"`
	DatabaseURL     string           `mapstructure:"database_url"`
	AdvertisedMoods []string         `mapstructure:"advertised_moods"`
	Expression      ExpressionConfig `mapstructure:"expression"`
	Spotify         SpotifyConfig    `mapstructure:"spotify"`
}

// ExpressionConfig describes the facial classifier's label vocabulary and how
// each label maps onto a canonical mood. A file's labels are merged key by key
// over the built-in mapping: an entry can be retargeted but not removed. To
// send a built-in label to the catch-all, map it to the fallback mood.
type ExpressionConfig struct {
	Vocabulary []string          `mapstructure:"vocabulary"`
	Labels     map[string]string `mapstructure:"labels"`
	Fallback   string            `mapstructure:"fallback"` // empty disables the catch-all
}

// SpotifyConfig holds the credentials used by the Spotify playlist sink.
type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
	TokenPath    string `mapstructure:"token_path"`
}

// Load reads configuration. An explicit file path must exist; without one,
// moodtunes.yaml is looked up in ., ./config and $HOME/.moodtunes and is
// optional.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The Spotify variables keep their conventional unprefixed names too.
	if err := v.BindEnv("spotify.client_id", EnvPrefix+"_SPOTIFY_CLIENT_ID", "SPOTIFY_ID"); err != nil {
		return nil, fmt.Errorf("binding spotify.client_id: %w", err)
	}
	if err := v.BindEnv("spotify.client_secret", EnvPrefix+"_SPOTIFY_CLIENT_SECRET", "SPOTIFY_SECRET"); err != nil {
		return nil, fmt.Errorf("binding spotify.client_secret: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("moodtunes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.moodtunes")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("http_address", cfg.HTTPAddress).
		Float64("threshold", cfg.Threshold).
		Dur("capture_delay", cfg.CaptureDelay).
		Str("catalog_path", cfg.CatalogPath).
		Bool("database", cfg.DatabaseURL != "").
		Msg("Config loaded")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_address", "127.0.0.1:8080")
	v.SetDefault("threshold", mood.DefaultThreshold)
	v.SetDefault("capture_delay", capture.DefaultDelay)
	v.SetDefault("catalog_path", "")
	v.SetDefault("database_url", "")
	v.SetDefault("advertised_moods", []string{"happy", "sad", "angry", "surprised", "calm"})

	v.SetDefault("expression.vocabulary", mood.FaceAPIVocabulary)
	v.SetDefault("expression.labels", map[string]string{
		"happy":     "happy",
		"sad":       "sad",
		"angry":     "angry",
		"surprised": "surprised",
		"neutral":   "calm",
		"fearful":   "sad",
		"disgusted": "angry",
	})
	v.SetDefault("expression.fallback", "calm")

	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")
	v.SetDefault("spotify.redirect_uri", "http://127.0.0.1:8080/callback")
	v.SetDefault("spotify.token_path", "")
}

// Validate checks value ranges and builds the label tables so that a mapping
// gap stops the process at startup.
func (c *Config) Validate() error {
	if c.HTTPAddress == "" {
		return errors.New("http_address must not be empty")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold: %w: got %v", mood.ErrInvalidThreshold, c.Threshold)
	}
	if c.CaptureDelay < 0 {
		return fmt.Errorf("capture_delay must not be negative: got %s", c.CaptureDelay)
	}
	if _, err := c.Advertised(); err != nil {
		return err
	}
	if _, err := c.Normalizer(); err != nil {
		return err
	}
	return nil
}

// Advertised parses the moods the product promises content for.
func (c *Config) Advertised() ([]mood.Mood, error) {
	out := make([]mood.Mood, 0, len(c.AdvertisedMoods))
	for _, s := range c.AdvertisedMoods {
		m, err := mood.ParseMood(s)
		if err != nil {
			return nil, fmt.Errorf("advertised_moods: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Normalizer builds the label tables described by the configuration.
func (c *Config) Normalizer() (*mood.Normalizer, error) {
	// Label keys are folded here; the facial table itself matches exactly.
	entries := make(map[string]mood.Mood, len(c.Expression.Labels))
	for label, target := range c.Expression.Labels {
		entries[strings.ToLower(strings.TrimSpace(label))] = mood.Mood(strings.ToLower(strings.TrimSpace(target)))
	}

	var opts []mood.TableOption
	if fb := strings.TrimSpace(c.Expression.Fallback); fb != "" {
		opts = append(opts, mood.WithFallback(mood.Mood(strings.ToLower(fb))))
	}

	n := mood.NewNormalizer()
	if err := n.Register(mood.SourceFacial, c.Expression.Vocabulary, mood.NewLabelTable(entries, opts...)); err != nil {
		return nil, fmt.Errorf("expression labels: %w", err)
	}
	if err := n.Register(mood.SourceText, mood.TextVocabulary, mood.TextLabels()); err != nil {
		return nil, fmt.Errorf("text labels: %w", err)
	}
	return n, nil
}

// RequireSpotify returns ErrMissingCredentials unless both Spotify credentials are set.
func (c *Config) RequireSpotify() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}
