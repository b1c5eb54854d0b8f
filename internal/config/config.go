package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/spy"
)

// Config captures everything folio reads from config.toml.
type Config struct {
	Page          string
	PollEvery     time.Duration
	LogFile       string
	PrefsPath     string
	ThemeFallback prefs.Fallback
	PageSpy       SpyConfig
	DialogSpy     SpyConfig
	Reveal        RevealConfig
	ToastDuration time.Duration
}

// SpyConfig configures one scroll-spy context.
type SpyConfig struct {
	Policy     spy.Policy
	Margin     spy.Margin
	Thresholds []float64
	Delivery   spy.Delivery
	Instant    bool
}

// Options converts the config into observer options.
func (s SpyConfig) Options() spy.ObserverOptions {
	return spy.ObserverOptions{
		Thresholds: append([]float64(nil), s.Thresholds...),
		Margin:     s.Margin,
		Delivery:   s.Delivery,
	}
}

// RevealConfig configures entrance reveal of page sections.
type RevealConfig struct {
	Threshold     float64
	Stagger       time.Duration
	MaxDelay      time.Duration
	ReducedMotion bool
	All           bool // reveal every section, not only ones marked .reveal
}

const (
	defaultPollEvery     = 2 * time.Second
	defaultToastDuration = 2200 * time.Millisecond
	defaultPageMargin    = "-40% 0px -55% 0px"
	defaultDialogMargin  = "0px 0px -40% 0px"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "folio", "config.toml")
}

// Default returns the built-in configuration.
func Default() Config {
	pageMargin, _ := spy.ParseMargin(defaultPageMargin)
	dialogMargin, _ := spy.ParseMargin(defaultDialogMargin)
	return Config{
		PollEvery:     defaultPollEvery,
		ThemeFallback: prefs.FallbackSystem,
		PageSpy: SpyConfig{
			Policy:     spy.FirstIntersecting,
			Margin:     pageMargin,
			Thresholds: []float64{0.01},
		},
		DialogSpy: SpyConfig{
			Policy:     spy.HighestRatio,
			Margin:     dialogMargin,
			Thresholds: []float64{0, 0.25, 0.5, 0.75, 1},
		},
		Reveal: RevealConfig{
			Threshold: 0.15,
			Stagger:   60 * time.Millisecond,
			MaxDelay:  360 * time.Millisecond,
		},
		ToastDuration: defaultToastDuration,
	}
}

type rawSpy struct {
	Policy     string    `toml:"policy"`
	Margin     *string   `toml:"margin"`
	Thresholds []float64 `toml:"thresholds"`
	Delivery   string    `toml:"delivery"`
	Instant    bool      `toml:"instant"`
}

type rawConfig struct {
	Page    string `toml:"page"`
	Poll    string `toml:"poll"`
	LogFile string `toml:"log_file"`
	Prefs   string `toml:"prefs"`
	Theme   struct {
		Fallback string `toml:"fallback"`
	} `toml:"theme"`
	Spy       rawSpy `toml:"spy"`
	DialogSpy rawSpy `toml:"dialog_spy"`
	Reveal    struct {
		Threshold     float64 `toml:"threshold"`
		Stagger       string  `toml:"stagger"`
		MaxDelay      string  `toml:"max_delay"`
		ReducedMotion bool    `toml:"reduced_motion"`
		All           bool    `toml:"all"`
	} `toml:"reveal"`
	Toast struct {
		Duration string `toml:"duration"`
	} `toml:"toast"`
}

// Load locates and parses the folio config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if page := strings.TrimSpace(raw.Page); page != "" {
		cfg.Page = mustExpand(page)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if p := strings.TrimSpace(raw.Prefs); p != "" {
		cfg.PrefsPath = mustExpand(p)
	}
	if err := parseDuration("poll", raw.Poll, &cfg.PollEvery); err != nil {
		return Config{}, err
	}
	if cfg.ThemeFallback, err = prefs.ParseFallback(raw.Theme.Fallback); err != nil {
		return Config{}, fmt.Errorf("theme: %w", err)
	}
	if err := applySpy("spy", raw.Spy, &cfg.PageSpy); err != nil {
		return Config{}, err
	}
	if err := applySpy("dialog_spy", raw.DialogSpy, &cfg.DialogSpy); err != nil {
		return Config{}, err
	}

	if t := raw.Reveal.Threshold; math.IsNaN(t) || t < 0 || t > 1 {
		return Config{}, fmt.Errorf("reveal: threshold %v outside [0, 1]", t)
	}
	if raw.Reveal.Threshold > 0 {
		cfg.Reveal.Threshold = raw.Reveal.Threshold
	}
	if err := parseDuration("reveal.stagger", raw.Reveal.Stagger, &cfg.Reveal.Stagger); err != nil {
		return Config{}, err
	}
	if err := parseDuration("reveal.max_delay", raw.Reveal.MaxDelay, &cfg.Reveal.MaxDelay); err != nil {
		return Config{}, err
	}
	cfg.Reveal.ReducedMotion = raw.Reveal.ReducedMotion
	cfg.Reveal.All = raw.Reveal.All

	if err := parseDuration("toast.duration", raw.Toast.Duration, &cfg.ToastDuration); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applySpy(section string, raw rawSpy, dst *SpyConfig) error {
	if strings.TrimSpace(raw.Policy) != "" {
		policy, err := spy.ParsePolicy(raw.Policy)
		if err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
		dst.Policy = policy
	}
	if raw.Margin != nil {
		margin, err := spy.ParseMargin(*raw.Margin)
		if err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
		dst.Margin = margin
	}
	if len(raw.Thresholds) > 0 {
		for _, t := range raw.Thresholds {
			if math.IsNaN(t) || t < 0 || t > 1 {
				return fmt.Errorf("%s: threshold %v outside [0, 1]", section, t)
			}
		}
		dst.Thresholds = raw.Thresholds
	}
	delivery, err := spy.ParseDelivery(raw.Delivery)
	if err != nil {
		return fmt.Errorf("%s: %w", section, err)
	}
	dst.Delivery = delivery
	dst.Instant = raw.Instant
	return nil
}

func parseDuration(key, value string, dst *time.Duration) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return fmt.Errorf("%s: negative duration %s", key, value)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPath(), nil
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
