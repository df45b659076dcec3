// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// Input formats understood by the CLI row sources.
const (
	FormatJSONLines = "jsonl"
	FormatCSV       = "csv"
)

// Config aggregates configuration for the application.
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type InputConfig struct {
	// Format of the input stream, "jsonl" or "csv".
	Format string `mapstructure:"format"`
}

type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `mapstructure:"level"`
	// JSON switches the console handler from text to JSON output.
	JSON bool `mapstructure:"json"`
	// File, when set, receives a JSON copy of every log record.
	File string `mapstructure:"file"`
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "SEQRUNNER" and the dot character
// in keys is replaced by an underscore. For example, "input.format"
// becomes "SEQRUNNER_INPUT_FORMAT".
func Load() (*Config, error) {
	cfg := &Config{
		Input:   InputConfig{Format: FormatJSONLines},
		Logging: LoggingConfig{Level: "info"},
	}

	v := viper.New()
	v.SetConfigName("seqrunner")
	v.AddConfigPath(".")
	v.SetEnvPrefix("SEQRUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.Input.Format = strings.ToLower(cfg.Input.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Input.Format {
	case FormatJSONLines, FormatCSV:
	default:
		return fmt.Errorf("invalid input format %q (want %q or %q)", c.Input.Format, FormatJSONLines, FormatCSV)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	return nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
