package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/westy/filemaster/internal/constants"
)

// PlayerConfig holds media playback preferences.
type PlayerConfig struct {
	AutoResume bool   `json:"auto_resume"`
	Subtitles  bool   `json:"subtitles"`
	RepeatMode string `json:"repeat_mode"` // none, one, all
	Shuffle    bool   `json:"shuffle"`
	Volume     int    `json:"volume"`
}

// AudioConfig holds audio playback preferences.
type AudioConfig struct {
	AutoPlay        bool   `json:"auto_play"`
	Crossfade       bool   `json:"crossfade"`
	ReplayGain      bool   `json:"replaygain"`
	Gapless         bool   `json:"gapless"`
	EqualizerPreset string `json:"equalizer_preset"`
	Volume          int    `json:"volume"`
}

// OperationsConfig tunes the batch engine.
type OperationsConfig struct {
	SecurePasses  int  `json:"secure_passes"`
	PreserveAttrs bool `json:"preserve_attrs"`
	Overwrite     bool `json:"overwrite"`
	Workers       int  `json:"workers"`
}

// UIConfig holds pane display preferences.
type UIConfig struct {
	UnitSystem string `json:"unit_system"` // iec or si
	ShowHidden bool   `json:"show_hidden"`
	SortBy     string `json:"sort_by"` // name, size, mtime
	LeftDir    string `json:"left_dir"`
	RightDir   string `json:"right_dir"`
}

// Config is the persisted application configuration.
type Config struct {
	Player     PlayerConfig     `json:"player"`
	Audio      AudioConfig      `json:"audio"`
	Operations OperationsConfig `json:"operations"`
	UI         UIConfig         `json:"ui"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			AutoResume: true,
			Subtitles:  true,
			RepeatMode: "none",
			Volume:     80,
		},
		Audio: AudioConfig{
			AutoPlay:        true,
			ReplayGain:      true,
			Gapless:         true,
			EqualizerPreset: "normal",
			Volume:          80,
		},
		Operations: OperationsConfig{
			SecurePasses:  constants.DefaultSecurePasses,
			PreserveAttrs: true,
			Workers:       constants.DefaultTransferWorkers,
		},
		UI: UIConfig{
			UnitSystem: "iec",
			SortBy:     "name",
		},
	}
}

// Load reads the configuration from path, merging it over the defaults
// so missing keys keep their default values. A missing file yields the
// defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// Set updates a value addressed as "section.key" with a string value,
// converting to the field's type. Used by the config set command.
func (c *Config) Set(key, value string) error {
	section, field, found := strings.Cut(key, ".")
	if !found {
		return fmt.Errorf("key must be section.name, got %q", key)
	}

	boolVal := func() (bool, error) { return strconv.ParseBool(value) }
	intVal := func() (int, error) { return strconv.Atoi(value) }

	var err error
	switch section + "." + field {
	case "player.auto_resume":
		c.Player.AutoResume, err = boolVal()
	case "player.subtitles":
		c.Player.Subtitles, err = boolVal()
	case "player.repeat_mode":
		if value != "none" && value != "one" && value != "all" {
			return fmt.Errorf("repeat_mode must be none, one or all")
		}
		c.Player.RepeatMode = value
	case "player.shuffle":
		c.Player.Shuffle, err = boolVal()
	case "player.volume":
		c.Player.Volume, err = intVal()
	case "audio.auto_play":
		c.Audio.AutoPlay, err = boolVal()
	case "audio.crossfade":
		c.Audio.Crossfade, err = boolVal()
	case "audio.replaygain":
		c.Audio.ReplayGain, err = boolVal()
	case "audio.gapless":
		c.Audio.Gapless, err = boolVal()
	case "audio.equalizer_preset":
		c.Audio.EqualizerPreset = value
	case "audio.volume":
		c.Audio.Volume, err = intVal()
	case "operations.secure_passes":
		var n int
		n, err = intVal()
		if err == nil && (n < 1 || n > constants.MaxSecurePasses) {
			return fmt.Errorf("secure_passes must be 1..%d", constants.MaxSecurePasses)
		}
		c.Operations.SecurePasses = n
	case "operations.preserve_attrs":
		c.Operations.PreserveAttrs, err = boolVal()
	case "operations.overwrite":
		c.Operations.Overwrite, err = boolVal()
	case "operations.workers":
		var n int
		n, err = intVal()
		if err == nil && (n < 1 || n > constants.MaxTransferWorkers) {
			return fmt.Errorf("workers must be 1..%d", constants.MaxTransferWorkers)
		}
		c.Operations.Workers = n
	case "ui.unit_system":
		if value != "iec" && value != "si" {
			return fmt.Errorf("unit_system must be iec or si")
		}
		c.UI.UnitSystem = value
	case "ui.show_hidden":
		c.UI.ShowHidden, err = boolVal()
	case "ui.sort_by":
		if value != "name" && value != "size" && value != "mtime" {
			return fmt.Errorf("sort_by must be name, size or mtime")
		}
		c.UI.SortBy = value
	case "ui.left_dir":
		c.UI.LeftDir = value
	case "ui.right_dir":
		c.UI.RightDir = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return nil
}
