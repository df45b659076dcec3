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

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/cardinalhq/seqrunner/config"
)

const serviceName = "seqrunner"

// setupLogging installs the default slog logger. Console records go to
// stderr so that stdout stays free for row output. When a log file is
// configured, every record is fanned out to it as JSON as well.
func setupLogging(lc *config.LoggingConfig) error {
	opts := &slog.HandlerOptions{Level: parseLevel(lc.Level)}

	var console slog.Handler
	if lc.JSON {
		console = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		console = slog.NewTextHandler(os.Stderr, opts)
	}

	handler := console
	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		// The file stays open for the life of the process.
		handler = slogmulti.Fanout(
			console,
			slog.NewJSONHandler(f, opts),
		)
	}

	slog.SetDefault(slog.New(handler).With(
		slog.String("service", serviceName),
	))
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
