package userlogic

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidOptions wraps every validation failure of Options and Config.
var ErrInvalidOptions = errors.New("invalid options")

// Options are the tunables shared by all users of a group.
type Options struct {
	// MinUserSpeed and MaxUserSpeed bound the walking speed in m/s.
	MinUserSpeed float64 `yaml:"min_user_speed"`
	MaxUserSpeed float64 `yaml:"max_user_speed"`

	// Range of the lowest comfortable temperature in °C.
	LowerMinOkTemperature float64 `yaml:"lower_min_ok_temperature"`
	UpperMinOkTemperature float64 `yaml:"upper_min_ok_temperature"`

	// Range of the highest comfortable temperature in °C. The two ranges may
	// overlap, in which case a user can end up with an inverted band.
	LowerMaxOkTemperature float64 `yaml:"lower_max_ok_temperature"`
	UpperMaxOkTemperature float64 `yaml:"upper_max_ok_temperature"`

	BodyTemperature float64 `yaml:"body_temperature"`

	// LinearStepBudget charges reached vertices with their distance instead
	// of their squared distance.
	LinearStepBudget bool `yaml:"linear_step_budget"`

	// MaxRetargetsPerTick caps how many new random routes a wandering user
	// may request in a single tick.
	MaxRetargetsPerTick int `yaml:"max_retargets_per_tick"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MinUserSpeed:          0.8,
		MaxUserSpeed:          1.4,
		LowerMinOkTemperature: 17,
		UpperMinOkTemperature: 22,
		LowerMaxOkTemperature: 20,
		UpperMaxOkTemperature: 26,
		BodyTemperature:       32,
		MaxRetargetsPerTick:   16,
	}
}

// Validate checks that every bound is usable.
func (o Options) Validate() error {
	switch {
	case o.MinUserSpeed < 0 || o.MaxUserSpeed < o.MinUserSpeed:
		return fmt.Errorf("%w: user speed range [%v, %v]", ErrInvalidOptions, o.MinUserSpeed, o.MaxUserSpeed)
	case o.UpperMinOkTemperature < o.LowerMinOkTemperature:
		return fmt.Errorf("%w: min ok temperature range [%v, %v]", ErrInvalidOptions, o.LowerMinOkTemperature, o.UpperMinOkTemperature)
	case o.UpperMaxOkTemperature < o.LowerMaxOkTemperature:
		return fmt.Errorf("%w: max ok temperature range [%v, %v]", ErrInvalidOptions, o.LowerMaxOkTemperature, o.UpperMaxOkTemperature)
	case o.MaxRetargetsPerTick < 1:
		return fmt.Errorf("%w: max_retargets_per_tick must be positive, got %d", ErrInvalidOptions, o.MaxRetargetsPerTick)
	}
	return nil
}

// FieldOptions configure the grid thermal field.
type FieldOptions struct {
	// PixelSize is the edge length of one cell in m.
	PixelSize float64 `yaml:"pixel_size"`
	// InitialTemperature of every cell in °C.
	InitialTemperature float64 `yaml:"initial_temperature"`
	// HeatCapacity of one cell in J/K.
	HeatCapacity float64 `yaml:"heat_capacity"`
}

// DefaultFieldOptions returns a 1 m grid at 21 °C.
func DefaultFieldOptions() FieldOptions {
	return FieldOptions{
		PixelSize:          1,
		InitialTemperature: 21,
		HeatCapacity:       1200,
	}
}

// Validate checks the field options.
func (o FieldOptions) Validate() error {
	if o.PixelSize <= 0 {
		return fmt.Errorf("%w: pixel_size must be positive, got %v", ErrInvalidOptions, o.PixelSize)
	}
	if o.HeatCapacity <= 0 {
		return fmt.Errorf("%w: heat_capacity must be positive, got %v", ErrInvalidOptions, o.HeatCapacity)
	}
	return nil
}

// Config is the YAML document read by the simulator.
type Config struct {
	Users    Options      `yaml:"users"`
	Field    FieldOptions `yaml:"field"`
	Schedule Schedule     `yaml:"schedule"`
}

// DefaultConfig returns the default options, field and schedule.
func DefaultConfig() Config {
	return Config{
		Users:    DefaultOptions(),
		Field:    DefaultFieldOptions(),
		Schedule: DefaultSchedule(),
	}
}

// ParseConfig reads a YAML document on top of the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Users.Validate(); err != nil {
		return err
	}
	if err := c.Field.Validate(); err != nil {
		return err
	}
	return c.Schedule.Validate()
}
