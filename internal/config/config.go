package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zhubert/scrollback/internal/errors"
)

// Config holds the application configuration
type Config struct {
	Theme                string `json:"theme,omitempty"`                 // UI theme name (e.g., "dark-purple", "nord")
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notifications for messages arriving while unfocused
	AnimationsDisabled   bool   `json:"animations_disabled,omitempty"`   // Apply new messages without highlighting

	Timing Timing `json:"timing"`
	Demo   Demo   `json:"demo"`

	mu       sync.RWMutex
	filePath string
}

// Timing holds the coordinator and animation durations, in milliseconds.
type Timing struct {
	SendDelayMS        int `json:"send_delay_ms"`        // lets the composer start collapsing before a send
	ComposerMS         int `json:"composer_ms"`          // composer height change
	TransitionMS       int `json:"transition_ms"`        // window resize transition
	ScrollIntervalMS   int `json:"scroll_interval_ms"`   // between animated scroll steps
	ScrollStep         int `json:"scroll_step"`          // minimum lines per animated scroll step
	StuckTimeoutMS     int `json:"stuck_timeout_ms"`     // flags held longer than this are reported
	WatchdogIntervalMS int `json:"watchdog_interval_ms"` // 0 disables the stuck flag watchdog
}

// Demo configures the built-in demo conversation.
type Demo struct {
	Pages        int     `json:"pages"`          // pages of history
	PageSize     int     `json:"page_size"`      // messages per page
	LatencyMS    int     `json:"latency_ms"`     // delay before every load or send returns
	ReplyDelayMS int     `json:"reply_delay_ms"` // delay before the echo reply arrives
	FailRate     float64 `json:"fail_rate"`      // probability in [0,1] that a call fails
	Seed         uint64  `json:"seed"`
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// SendDelay returns SendDelayMS as a duration.
func (t Timing) SendDelay() time.Duration { return ms(t.SendDelayMS) }

// Composer returns ComposerMS as a duration.
func (t Timing) Composer() time.Duration { return ms(t.ComposerMS) }

// Transition returns TransitionMS as a duration.
func (t Timing) Transition() time.Duration { return ms(t.TransitionMS) }

// ScrollInterval returns ScrollIntervalMS as a duration.
func (t Timing) ScrollInterval() time.Duration { return ms(t.ScrollIntervalMS) }

// StuckTimeout returns StuckTimeoutMS as a duration.
func (t Timing) StuckTimeout() time.Duration { return ms(t.StuckTimeoutMS) }

// WatchdogInterval returns WatchdogIntervalMS as a duration.
func (t Timing) WatchdogInterval() time.Duration { return ms(t.WatchdogIntervalMS) }

// Latency returns LatencyMS as a duration.
func (d Demo) Latency() time.Duration { return ms(d.LatencyMS) }

// ReplyDelay returns ReplyDelayMS as a duration.
func (d Demo) ReplyDelay() time.Duration { return ms(d.ReplyDelayMS) }

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Timing: Timing{
			SendDelayMS:        120,
			ComposerMS:         100,
			TransitionMS:       150,
			ScrollIntervalMS:   16,
			ScrollStep:         2,
			StuckTimeoutMS:     10_000,
			WatchdogIntervalMS: 2_000,
		},
		Demo: Demo{
			Pages:        5,
			PageSize:     20,
			LatencyMS:    400,
			ReplyDelayMS: 1200,
			Seed:         1,
		},
	}
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".scrollback"), nil
}

// DefaultPath returns the path Load reads, ~/.scrollback/config.json.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from ~/.scrollback/config.json, or returns the
// defaults if it doesn't exist.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, errors.ConfigLoadFailed("~/.scrollback", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Fields missing from the file keep
// their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every value is in range.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t := c.Timing
	for name, v := range map[string]int{
		"send_delay_ms":        t.SendDelayMS,
		"composer_ms":          t.ComposerMS,
		"transition_ms":        t.TransitionMS,
		"scroll_interval_ms":   t.ScrollIntervalMS,
		"stuck_timeout_ms":     t.StuckTimeoutMS,
		"watchdog_interval_ms": t.WatchdogIntervalMS,
		"latency_ms":           c.Demo.LatencyMS,
		"reply_delay_ms":       c.Demo.ReplyDelayMS,
	} {
		if v < 0 {
			return errors.ConfigInvalid(fmt.Sprintf("%s must not be negative, got %d", name, v))
		}
	}
	if t.ScrollStep < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("scroll_step must be at least 1, got %d", t.ScrollStep))
	}
	if t.WatchdogIntervalMS > 0 && t.StuckTimeoutMS == 0 {
		return errors.ConfigInvalid("stuck_timeout_ms is required when the watchdog is enabled")
	}
	if c.Demo.Pages < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("pages must be at least 1, got %d", c.Demo.Pages))
	}
	if c.Demo.PageSize < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("page_size must be at least 1, got %d", c.Demo.PageSize))
	}
	if c.Demo.FailRate < 0 || c.Demo.FailRate > 1 {
		return errors.ConfigInvalid(fmt.Sprintf("fail_rate must be within [0, 1], got %g", c.Demo.FailRate))
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filePath == "" {
		return errors.ConfigSaveFailed("", fmt.Errorf("no file path set"))
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// SetFilePath sets where Save writes
func (c *Config) SetFilePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filePath = path
}

// FilePath returns where Save writes
func (c *Config) FilePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// GetTheme returns the configured theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled enables or disables desktop notifications
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetAnimationsEnabled returns whether new messages are highlighted
func (c *Config) GetAnimationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.AnimationsDisabled
}

// SetAnimationsEnabled turns new-message highlighting on or off
func (c *Config) SetAnimationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AnimationsDisabled = !enabled
}

// GetTiming returns a copy of the timing settings
func (c *Config) GetTiming() Timing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Timing
}

// GetDemo returns a copy of the demo settings
func (c *Config) GetDemo() Demo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Demo
}

// SetDemo replaces the demo settings
func (c *Config) SetDemo(d Demo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Demo = d
}
