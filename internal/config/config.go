// Package config loads the service configuration from configs/config.yml,
// HEATER_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"water_heater/internal/logger"
	"water_heater/internal/service"

	"github.com/spf13/viper"
)

// Remote drivers.
const (
	DriverHTTP      = "http"
	DriverSimulator = "simulator"
)

const envPrefix = "HEATER"

type Config struct {
	Port      string          `mapstructure:"port"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Heater    HeaterConfig    `mapstructure:"heater"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type HeaterConfig struct {
	Interval      time.Duration  `mapstructure:"interval"`
	FetchAttempts int            `mapstructure:"fetch_attempts"`
	FetchBackoff  time.Duration  `mapstructure:"fetch_backoff"`
	Schedule      []WindowConfig `mapstructure:"schedule"`
}

// WindowConfig is one boost window as written in the config file.
type WindowConfig struct {
	StartHour int      `mapstructure:"start_hour"`
	EndHour   int      `mapstructure:"end_hour"`
	TargetC   float64  `mapstructure:"target_c"`
	Days      []string `mapstructure:"days"`
}

type RemoteConfig struct {
	Driver  string        `mapstructure:"driver"`
	BaseURL string        `mapstructure:"base_url"`
	Gateway string        `mapstructure:"gateway"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SimulatorConfig struct {
	Tick       time.Duration `mapstructure:"tick"`
	StartTempC float64       `mapstructure:"start_temp_c"`
}

type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.format", logger.ConsoleFormat)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("heater.interval", service.DefaultHeartbeatInterval)
	v.SetDefault("heater.fetch_attempts", service.DefaultFetchAttempts)
	v.SetDefault("heater.fetch_backoff", time.Duration(0))
	v.SetDefault("remote.driver", DriverSimulator)
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.gateway", "simulated")
	v.SetDefault("remote.token", "")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("simulator.tick", time.Second)
	v.SetDefault("simulator.start_temp_c", 35.0)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "water-heater")
	v.SetDefault("mqtt.topic_prefix", "home/water-heater")
}

// Load reads path, or configs/config.yml when path is empty. A missing default
// file is not an error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port must be set")
	}
	switch c.Log.Level {
	case logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel:
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case logger.ConsoleFormat, logger.JSONFormat:
	default:
		return fmt.Errorf("log.format %q must be console or json", c.Log.Format)
	}
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errors.New("auth.signing_key must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Heater.Interval <= 0 {
		return errors.New("heater.interval must be positive")
	}
	if c.Heater.FetchAttempts < 1 {
		return fmt.Errorf("heater.fetch_attempts must be at least 1, got %d", c.Heater.FetchAttempts)
	}
	if c.Heater.FetchBackoff < 0 {
		return errors.New("heater.fetch_backoff must not be negative")
	}
	if _, err := c.ScheduleTable(); err != nil {
		return err
	}

	switch c.Remote.Driver {
	case DriverHTTP:
		if c.Remote.BaseURL == "" || c.Remote.Gateway == "" {
			return errors.New("remote.base_url and remote.gateway are required for the http driver")
		}
		if c.Remote.Timeout <= 0 {
			return errors.New("remote.timeout must be positive")
		}
	case DriverSimulator:
		if c.Simulator.Tick <= 0 {
			return errors.New("simulator.tick must be positive")
		}
	default:
		return fmt.Errorf("remote.driver %q must be http or simulator", c.Remote.Driver)
	}
	return nil
}

// ScheduleTable builds the boost schedule. Without configured windows the
// built-in table is used.
func (c *Config) ScheduleTable() (service.ScheduleTable, error) {
	if len(c.Heater.Schedule) == 0 {
		return service.DefaultSchedule(), nil
	}
	table := make(service.ScheduleTable, 0, len(c.Heater.Schedule))
	for i, w := range c.Heater.Schedule {
		days, err := parseWeekdays(w.Days)
		if err != nil {
			return nil, fmt.Errorf("heater.schedule[%d]: %w", i, err)
		}
		win, err := service.NewBoostWindow(w.StartHour, w.EndHour, w.TargetC, days...)
		if err != nil {
			return nil, fmt.Errorf("heater.schedule[%d]: %w", i, err)
		}
		table = append(table, win)
	}
	return table, nil
}

// ThermoConfig maps the heater section onto the controller's settings.
func (c *Config) ThermoConfig() (service.ThermoConfig, error) {
	sched, err := c.ScheduleTable()
	if err != nil {
		return service.ThermoConfig{}, err
	}
	return service.ThermoConfig{
		Schedule:      sched,
		FetchAttempts: c.Heater.FetchAttempts,
		FetchBackoff:  c.Heater.FetchBackoff,
	}, nil
}

var weekdayNames = map[string][]time.Weekday{
	"sun": {time.Sunday}, "sunday": {time.Sunday},
	"mon": {time.Monday}, "monday": {time.Monday},
	"tue": {time.Tuesday}, "tuesday": {time.Tuesday},
	"wed": {time.Wednesday}, "wednesday": {time.Wednesday},
	"thu": {time.Thursday}, "thursday": {time.Thursday},
	"fri": {time.Friday}, "friday": {time.Friday},
	"sat": {time.Saturday}, "saturday": {time.Saturday},
	"weekdays": {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	"weekend":  {time.Saturday, time.Sunday},
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, n := range names {
		days, ok := weekdayNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", n)
		}
		for _, d := range days {
			if !slices.Contains(out, d) {
				out = append(out, d)
			}
		}
	}
	return out, nil
}
