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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, FormatJSONLines, cfg.Input.Format)
	require.Equal(t, "info", cfg.Logging.Level)
	require.False(t, cfg.Logging.JSON)
	require.Empty(t, cfg.Logging.File)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SEQRUNNER_INPUT_FORMAT", "csv")
	t.Setenv("SEQRUNNER_LOGGING_LEVEL", "debug")
	t.Setenv("SEQRUNNER_LOGGING_JSON", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, FormatCSV, cfg.Input.Format)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Logging.JSON)
}

func TestLoadNormalizesFormatCase(t *testing.T) {
	t.Setenv("SEQRUNNER_INPUT_FORMAT", "CSV")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, FormatCSV, cfg.Input.Format)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Setenv("SEQRUNNER_INPUT_FORMAT", "parquet")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid input format")
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := &Config{
		Input:   InputConfig{Format: FormatJSONLines},
		Logging: LoggingConfig{Level: "loud"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid log level")
}
