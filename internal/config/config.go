package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/tripwire/internal/geometry"
	"github.com/oshokin/tripwire/internal/logger"
	"github.com/oshokin/tripwire/internal/sensor"
)

// Config holds the settings shared by the tripwire binaries.
type Config struct {
	// ServerAddress is the gRPC address the sentry listens on and clients dial.
	ServerAddress string `yaml:"server_addr"`
	// StateFile is the path to the JSON file storing the last sensor snapshot.
	StateFile string `yaml:"state_file"`
	// SceneFile is the path to the YAML scene the sensor looks into.
	SceneFile string `yaml:"scene_file"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// TickRate is the number of simulation ticks per second.
	TickRate int `yaml:"tick_rate"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// EventJournalSize bounds the number of recent events kept for ListEvents.
	EventJournalSize int `yaml:"event_journal_size"`
	// Sensor configures the beam and the alarm.
	Sensor Sensor `yaml:"sensor"`
}

// Sensor holds the beam and alarm settings.
type Sensor struct {
	// ID names the sensor; a random UUID is assigned when empty.
	ID string `yaml:"id"`
	// Position is the beam origin in world coordinates.
	Position geometry.Vec2 `yaml:"position"`
	// RotationDegrees is the beam direction; 0 points along +X.
	RotationDegrees float64 `yaml:"rotation_degrees"`
	// MaxLength is the beam range and must be positive.
	MaxLength float64 `yaml:"max_length"`
	// CollisionMask selects the collider layers the beam sees.
	CollisionMask uint32 `yaml:"collision_mask"`
	// NormalColor is the idle beam color (#RRGGBB or #RRGGBBAA).
	NormalColor string `yaml:"normal_color"`
	// AlertColor is the alerting beam color (#RRGGBB or #RRGGBBAA).
	AlertColor string `yaml:"alert_color"`
	// HeartbeatPeriod is the heartbeat period while alerting.
	HeartbeatPeriod time.Duration `yaml:"heartbeat_period"`
	// TargetPath is the explicit scene path of the tracked target.
	TargetPath string `yaml:"target_path"`
	// TargetName is searched for when TargetPath is empty or does not resolve.
	TargetName string `yaml:"target_name"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "tripwire-settings.yaml"

	// DefaultStateFilename is the default filename for the snapshot JSON.
	DefaultStateFilename = "tripwire-state.json"

	// DefaultSceneFilename is the default filename for the scene YAML.
	DefaultSceneFilename = "tripwire-scene.yaml"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTickRate matches a typical physics rate.
	DefaultTickRate = 60

	// MaxTickRate is the highest accepted tick rate in Hz (a 1ms step).
	MaxTickRate = 1000

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultEventJournalSize is the number of events kept for ListEvents.
	DefaultEventJournalSize = 64

	// DefaultMaxLength is the beam range used by Default.
	DefaultMaxLength = 500.0

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errBadTickRate is returned for a negative tick rate or one above MaxTickRate.
	errBadTickRate = errors.New("tick rate out of range")
	// errBadLogLevel is returned for unknown log levels.
	errBadLogLevel = errors.New("unknown log level")
	// errBadHeartbeat is returned for a negative heartbeat period.
	errBadHeartbeat = errors.New("heartbeat period must not be negative")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		ServerAddress: "127.0.0.1:50061",
		Sensor: Sensor{
			MaxLength: DefaultMaxLength,
		},
	}

	// Defaults are always valid.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.StateFile == "" {
		settings.StateFile = DefaultStateFilename
	}

	if settings.SceneFile == "" {
		settings.SceneFile = DefaultSceneFilename
	}

	switch {
	case settings.TickRate == 0:
		settings.TickRate = DefaultTickRate
	case settings.TickRate < 0, settings.TickRate > MaxTickRate:
		return fmt.Errorf("tick rate %d: %w", settings.TickRate, errBadTickRate)
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%q: %w", settings.LogLevel, errBadLogLevel)
	}

	if settings.EventJournalSize <= 0 {
		settings.EventJournalSize = DefaultEventJournalSize
	}

	return validateSensor(&settings.Sensor)
}

// validateSensor checks the sensor block and fills in defaults.
func validateSensor(s *Sensor) error {
	if !sensor.ValidMaxLength(s.MaxLength) {
		return fmt.Errorf("sensor max_length %v: %w", s.MaxLength, sensor.ErrInvalidMaxLength)
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	if s.CollisionMask == 0 {
		s.CollisionMask = sensor.DefaultCollisionMask
	}

	if s.NormalColor == "" {
		s.NormalColor = sensor.ColorGreen.Hex()
	}

	if s.AlertColor == "" {
		s.AlertColor = sensor.ColorRed.Hex()
	}

	if _, err := sensor.ParseColor(s.NormalColor); err != nil {
		return fmt.Errorf("sensor normal_color: %w", err)
	}

	if _, err := sensor.ParseColor(s.AlertColor); err != nil {
		return fmt.Errorf("sensor alert_color: %w", err)
	}

	switch {
	case s.HeartbeatPeriod == 0:
		s.HeartbeatPeriod = sensor.DefaultHeartbeatPeriod
	case s.HeartbeatPeriod < 0:
		return fmt.Errorf("sensor heartbeat_period %s: %w", s.HeartbeatPeriod, errBadHeartbeat)
	}

	if s.TargetName == "" {
		s.TargetName = sensor.DefaultTargetName
	}

	return nil
}

// TickInterval returns the fixed simulation step.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / DefaultTickRate
	}

	return time.Second / time.Duration(c.TickRate)
}

// Pose returns the sensor pose in world coordinates.
func (s *Sensor) Pose() geometry.Pose {
	return geometry.Pose{
		Position: s.Position,
		Rotation: geometry.DegreesToRadians(s.RotationDegrees),
	}
}

// DetectorOptions converts the sensor block into detector options for target.
// The block must have passed Validate.
func (s *Sensor) DetectorOptions(target sensor.ObjectID) (sensor.Options, error) {
	normal, err := sensor.ParseColor(s.NormalColor)
	if err != nil {
		return sensor.Options{}, fmt.Errorf("normal color: %w", err)
	}

	alert, err := sensor.ParseColor(s.AlertColor)
	if err != nil {
		return sensor.Options{}, fmt.Errorf("alert color: %w", err)
	}

	return sensor.Options{
		ID:              s.ID,
		MaxLength:       s.MaxLength,
		CollisionMask:   s.CollisionMask,
		Palette:         sensor.Palette{Normal: normal, Alert: alert},
		HeartbeatPeriod: s.HeartbeatPeriod,
		Target:          target,
	}, nil
}
