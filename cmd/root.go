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
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/seqrunner/config"
)

var (
	cfg *config.Config

	flagFormat   string
	flagLogLevel string
	flagLogJSON  bool
	flagLogFile  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seqrunner",
	Short: "Run query operators over row streams",
	Long: `Apply lazily-evaluated query operators such as sort, filter, and
distinct to JSON Lines or CSV rows read from a file or stdin. Results are
written to stdout as JSON Lines; logs go to stderr.`,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		pf := rootCmd.PersistentFlags()
		if pf.Changed("format") {
			c.Input.Format = strings.ToLower(flagFormat)
		}
		if pf.Changed("log-level") {
			c.Logging.Level = flagLogLevel
		}
		if pf.Changed("log-json") {
			c.Logging.JSON = flagLogJSON
		}
		if pf.Changed("log-file") {
			c.Logging.File = flagLogFile
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := setupLogging(&c.Logging); err != nil {
			return err
		}
		cfg = c
		return nil
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagFormat, "format", "", `input format, "jsonl" or "csv"`)
	pf.StringVar(&flagLogLevel, "log-level", "", "minimum log level: debug, info, warn, or error")
	pf.BoolVar(&flagLogJSON, "log-json", false, "write console logs as JSON")
	pf.StringVar(&flagLogFile, "log-file", "", "also write JSON logs to this file")

	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(distinctCmd)
	rootCmd.AddCommand(headCmd)
	rootCmd.AddCommand(statsCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
