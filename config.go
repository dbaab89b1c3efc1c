// Package main - config.go
//
// All tuning constants live here so they can be recalibrated per deployment
// without touching control logic: detection thresholds, color bands,
// fractional click coordinates, hotkeys, the boss location table and the
// monthly card schedule. Defaults match a 16:9 client; a YAML file can
// overlay any field.
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BossLocation addresses one row of the boss listing in the book:
// Page selects one of four scrollable pages, Index one of up to seven rows,
// Dungeon marks bosses that require a dungeon entry after travel.
type BossLocation struct {
	Page    int  `yaml:"page"`
	Index   int  `yaml:"index"`
	Dungeon bool `yaml:"dungeon"`
}

// ChannelRange is an inclusive band for one color channel.
type ChannelRange struct {
	Lo uint8 `yaml:"lo"`
	Hi uint8 `yaml:"hi"`
}

// ColorRange is an RGB band used by the color-ratio heuristic.
type ColorRange struct {
	R ChannelRange `yaml:"r"`
	G ChannelRange `yaml:"g"`
	B ChannelRange `yaml:"b"`
}

// Config holds every setting of the automation core.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogFile  string `yaml:"log_file"`
	DebugDir string `yaml:"debug_dir"`

	// Collaborator assets
	AssetsDir       string `yaml:"assets_dir"`        // template PNGs, one per feature name
	ModelPath       string `yaml:"model_path"`        // ONNX object detector
	OCRLanguages    string `yaml:"ocr_languages"`     // tesseract language string
	OCRTargetHeight int    `yaml:"ocr_target_height"` // regions are upscaled to this height before OCR

	// Wait engine
	PollIntervalMs int `yaml:"poll_interval_ms"`

	// Template matching
	MatchThreshold float64 `yaml:"match_threshold"`

	// Echo detection
	EchoLabel          int        `yaml:"echo_label"`
	EchoConfidence     float64    `yaml:"echo_confidence"`
	EchoColor          ColorRange `yaml:"echo_color"`
	EchoColorThreshold float64    `yaml:"echo_color_threshold"`

	// Stamina policy
	MinStamina int `yaml:"min_stamina"`
	MaxStamina int `yaml:"max_stamina"`

	// Monthly card
	MonthlyCardEnabled bool `yaml:"monthly_card_enabled"`
	MonthlyCardHour    int  `yaml:"monthly_card_hour"`

	// Boss farming
	Bosses     map[string]BossLocation `yaml:"bosses"`
	FarmBosses []string                `yaml:"farm_bosses"`
	// Idle time after travel before looking for drops, combat is external.
	BossWaitSec int `yaml:"boss_wait_sec"`
}

// DefaultConfig returns the built-in calibration.
func DefaultConfig() *Config {
	return &Config{
		LogFile:            "wuwabot.log",
		DebugDir:           "debug",
		AssetsDir:          "assets/features",
		ModelPath:          "assets/echo.onnx",
		OCRLanguages:       "eng+chi_sim",
		OCRTargetHeight:    540,
		PollIntervalMs:     100,
		MatchThreshold:     0.8,
		EchoLabel:          12,
		EchoConfidence:     0.5,
		EchoColor:          ColorRange{R: ChannelRange{200, 255}, G: ChannelRange{150, 220}, B: ChannelRange{130, 170}},
		EchoColorThreshold: 0.02,
		MinStamina:         60,
		MaxStamina:         240,
		MonthlyCardEnabled: false,
		MonthlyCardHour:    4,
		Bosses:             defaultBossTable(),
		FarmBosses:         []string{"Tempest Mephis"},
		BossWaitSec:        60,
	}
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinStamina < 0 || c.MaxStamina < c.MinStamina {
		return fmt.Errorf("stamina thresholds: min %d max %d", c.MinStamina, c.MaxStamina)
	}
	if c.MonthlyCardHour < 0 || c.MonthlyCardHour > 23 {
		return fmt.Errorf("monthly card hour out of range: %d", c.MonthlyCardHour)
	}
	for name, pos := range c.Bosses {
		if pos.Page < 0 || pos.Page > 3 || pos.Index < 0 || pos.Index > 6 {
			return fmt.Errorf("boss %q page %d index %d out of range", name, pos.Page, pos.Index)
		}
	}
	return nil
}

// PollInterval returns the wait-engine polling interval.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// defaultBossTable is the static page/index addressing of the book's boss
// listing. Read-only at runtime.
func defaultBossTable() map[string]BossLocation {
	return map[string]BossLocation{
		"Bell-Borne Geochelone":           {0, 0, false},
		"Dreamless":                       {0, 2, true},
		"Jue":                             {0, 3, true},
		"Hecate":                          {0, 4, true},
		"Fleurdelys":                      {0, 5, true},
		"Tempest Mephis":                  {0, 6, false},
		"Inferno Rider":                   {1, 0, false},
		"Impermanence Heron":              {1, 1, false},
		"Lampylumen Myriad":               {1, 2, false},
		"Feilian Beringal":                {1, 3, false},
		"Mourning Aix":                    {1, 4, false},
		"Crownless":                       {1, 5, false},
		"Mech Abomination":                {1, 6, false},
		"Thundering Mephis":               {2, 0, false},
		"Fallacy of No Return":            {2, 1, false},
		"Lorelei":                         {2, 2, false},
		"Sentry Construct":                {2, 3, false},
		"Dragon of Dirge":                 {2, 4, false},
		"Nightmare: Feilian Beringal":     {2, 5, false},
		"Nightmare: Impermanence Heron":   {2, 6, false},
		"Nightmare: Thundering Mephis":    {3, 0, false},
		"Nightmare: Tempest Mephis":       {3, 1, false},
		"Nightmare: Crownless":            {3, 2, false},
		"Nightmare: Inferno Rider":        {3, 3, false},
		"Nightmare: Mourning Aix":         {3, 4, false},
		"Nightmare: Lampylumen Myriad":    {3, 5, false},
	}
}
