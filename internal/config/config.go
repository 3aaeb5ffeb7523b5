// Package config holds the simulation settings. Values start from
// Default, may be overridden by a YAML file and then by command-line flags,
// and must pass Validate before a runway is built from them.
package config

import (
	"errors"
	"fmt"
	"os"
	"runway-simulator/internal/game/runway"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Planes               int           `yaml:"planes"`
	EmergencyProbability int           `yaml:"emergency_probability"`
	LandingDuration      time.Duration `yaml:"landing_duration"`
	TakeoffDuration      time.Duration `yaml:"takeoff_duration"`
	CheckpointInterval   time.Duration `yaml:"checkpoint_interval"`
	ArrivalStaggerMin    time.Duration `yaml:"arrival_stagger_min"`
	ArrivalStaggerMax    time.Duration `yaml:"arrival_stagger_max"`
	QueueCapacity        int           `yaml:"queue_capacity"`
	Runway               string        `yaml:"runway"`
	Seed                 int64         `yaml:"seed"`
	EventLogSize         int           `yaml:"event_log_size"`
}

func Default() Config {
	return Config{
		Planes:               10,
		EmergencyProbability: 15,
		LandingDuration:      8 * time.Second,
		TakeoffDuration:      6 * time.Second,
		CheckpointInterval:   runway.DefaultCheckpointInterval,
		ArrivalStaggerMin:    1 * time.Second,
		ArrivalStaggerMax:    3 * time.Second,
		Runway:               "09L",
		EventLogSize:         50,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Planes <= 0:
		return fmt.Errorf("%w: number of planes must be positive, got %d", ErrInvalid, c.Planes)
	case c.EmergencyProbability < 0 || c.EmergencyProbability > 100:
		return fmt.Errorf("%w: emergency probability must be between 0 and 100, got %d", ErrInvalid, c.EmergencyProbability)
	case c.LandingDuration <= 0:
		return fmt.Errorf("%w: landing duration must be positive, got %s", ErrInvalid, c.LandingDuration)
	case c.TakeoffDuration <= 0:
		return fmt.Errorf("%w: takeoff duration must be positive, got %s", ErrInvalid, c.TakeoffDuration)
	case c.CheckpointInterval <= 0:
		return fmt.Errorf("%w: checkpoint interval must be positive, got %s", ErrInvalid, c.CheckpointInterval)
	case c.CheckpointInterval > min(c.LandingDuration, c.TakeoffDuration):
		return fmt.Errorf("%w: checkpoint interval %s is longer than the shortest operation", ErrInvalid, c.CheckpointInterval)
	case c.ArrivalStaggerMin < 0 || c.ArrivalStaggerMax < c.ArrivalStaggerMin:
		return fmt.Errorf("%w: arrival stagger range [%s, %s] is invalid", ErrInvalid, c.ArrivalStaggerMin, c.ArrivalStaggerMax)
	case c.QueueCapacity < 0:
		return fmt.Errorf("%w: queue capacity must not be negative, got %d", ErrInvalid, c.QueueCapacity)
	case c.Runway == "":
		return fmt.Errorf("%w: runway designator is empty", ErrInvalid)
	}
	return nil
}

func (c Config) RunwayConfig() runway.Config {
	return runway.Config{
		LandingDuration:    c.LandingDuration,
		TakeoffDuration:    c.TakeoffDuration,
		CheckpointInterval: c.CheckpointInterval,
		QueueCapacity:      c.QueueCapacity,
	}
}
