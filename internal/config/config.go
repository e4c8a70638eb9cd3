package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Display backings.
const (
	BackingMemory = "memory" // Display memory inside the process
	BackingMmap   = "mmap"   // Display memory mapped from a file or device
)

// Modes accepted in config.json.
const (
	ModeText     = "text"
	ModeTerminal = "terminal"
)

// ErrUnknownBacking is returned by Validate for an unsupported display backing.
var ErrUnknownBacking = errors.New("unknown display backing")

// DisplayConfig selects where the 80x25 display memory lives.
type DisplayConfig struct {
	Backing string `json:"backing"`          // "memory" or "mmap"
	Path    string `json:"path,omitempty"`   // File or device to map (mmap only)
	Offset  int64  `json:"offset,omitempty"` // Page-aligned byte offset into Path
}

// RenderConfig controls how snapshots are printed.
type RenderConfig struct {
	Color     bool `json:"color"`     // Use lipgloss colors when stdout is a terminal
	TrimRight bool `json:"trimRight"` // Drop trailing blanks in plain text dumps
}

// FeedConfig tunes how byte sources are fed to the console.
type FeedConfig struct {
	Baud       int `json:"baud"`       // 0 = unthrottled, else bits per second (10 bits per byte)
	DebounceMs int `json:"debounceMs"` // Delay before reading a followed file after a write event
}

// ExecConfig is the default program for the exec command.
type ExecConfig struct {
	Command          string            `json:"command"`
	Args             []string          `json:"args"`
	WorkingDirectory string            `json:"workingDirectory,omitempty"`
	Environment      map[string]string `json:"environment,omitempty"`
}

// SSHConfig configures the SSH playground server.
type SSHConfig struct {
	Enabled          bool   `json:"enabled"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	HostKeyPath      string `json:"hostKeyPath"`
	Version          string `json:"version"`
	LegacyAlgorithms bool   `json:"legacyAlgorithms"` // Offer older kex/ciphers/MACs for retro clients
}

// TelnetConfig configures the telnet playground server.
type TelnetConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	CP437   bool   `json:"cp437"` // Send CP437 bytes instead of UTF-8
}

// SnapshotConfig configures periodic screen dumps.
type SnapshotConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"` // cron spec with seconds field, or @every/@hourly descriptors
	Dir      string `json:"dir"`
	Keep     int    `json:"keep"` // Newest dumps kept; 0 keeps everything
}

// Config is the contents of config.json.
type Config struct {
	Mode     string         `json:"mode"`
	Display  DisplayConfig  `json:"display"`
	Render   RenderConfig   `json:"render"`
	Feed     FeedConfig     `json:"feed"`
	Exec     ExecConfig     `json:"exec"`
	SSH      SSHConfig      `json:"ssh"`
	Telnet   TelnetConfig   `json:"telnet"`
	Snapshot SnapshotConfig `json:"snapshot"`
}

// Default returns the settings used when config.json is absent.
func Default() Config {
	return Config{
		Mode: ModeTerminal,
		Display: DisplayConfig{
			Backing: BackingMemory,
		},
		Render: RenderConfig{
			Color:     true,
			TrimRight: true,
		},
		Feed: FeedConfig{
			DebounceMs: 100,
		},
		SSH: SSHConfig{
			Host:        "0.0.0.0",
			Port:        2323,
			HostKeyPath: filepath.Join("configs", "ssh_host_ed25519"),
			Version:     "vgaterm",
		},
		Telnet: TelnetConfig{
			Host:  "0.0.0.0",
			Port:  2324,
			CP437: true,
		},
		Snapshot: SnapshotConfig{
			Schedule: "@every 30s",
			Dir:      "snapshots",
			Keep:     10,
		},
	}
}

// Load reads config.json from configPath. A missing file yields Default().
// Fields absent from the file keep their default values.
func Load(configPath string) (Config, error) {
	filePath := filepath.Join(configPath, "config.json")
	log.Printf("INFO: Loading configuration from %s", filePath)

	defaultConfig := Default()

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("WARN: config.json not found at %s. Using default settings.", filePath)
			return defaultConfig, nil
		}
		return defaultConfig, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	config := defaultConfig
	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("ERROR: Failed to parse config JSON from %s: %v. Using default settings.", filePath, err)
		return defaultConfig, fmt.Errorf("failed to parse config JSON from %s: %w", filePath, err)
	}
	if config.Feed.DebounceMs <= 0 {
		config.Feed.DebounceMs = defaultConfig.Feed.DebounceMs
	}
	if config.Snapshot.Schedule == "" {
		config.Snapshot.Schedule = defaultConfig.Snapshot.Schedule
	}
	if config.Snapshot.Dir == "" {
		config.Snapshot.Dir = defaultConfig.Snapshot.Dir
	}

	if err := config.Validate(); err != nil {
		return defaultConfig, fmt.Errorf("invalid config %s: %w", filePath, err)
	}

	log.Printf("INFO: Successfully loaded configuration from %s", filePath)
	return config, nil
}

// Validate checks values Load cannot default.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeText, ModeTerminal:
	default:
		return fmt.Errorf("mode %q: want %q or %q", c.Mode, ModeText, ModeTerminal)
	}
	switch c.Display.Backing {
	case BackingMemory:
	case BackingMmap:
		if c.Display.Path == "" {
			return fmt.Errorf("display backing %q needs a path", BackingMmap)
		}
		if c.Display.Offset < 0 {
			return fmt.Errorf("display offset %d is negative", c.Display.Offset)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBacking, c.Display.Backing)
	}
	if c.Feed.Baud < 0 {
		return fmt.Errorf("feed baud %d is negative", c.Feed.Baud)
	}
	if c.SSH.Enabled && (c.SSH.Port <= 0 || c.SSH.Port > 65535) {
		return fmt.Errorf("ssh port %d out of range", c.SSH.Port)
	}
	if c.Telnet.Enabled && (c.Telnet.Port <= 0 || c.Telnet.Port > 65535) {
		return fmt.Errorf("telnet port %d out of range", c.Telnet.Port)
	}
	if c.Snapshot.Keep < 0 {
		return fmt.Errorf("snapshot keep %d is negative", c.Snapshot.Keep)
	}
	return nil
}

// ModeFlag converts Mode to the console's SetMode argument.
func (c Config) ModeFlag() uint32 {
	if c.Mode == ModeText {
		return 0
	}
	return 1
}
