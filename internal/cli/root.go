// Package cli implements the soaplab command line client.
package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/soaplab/internal/config"
	"github.com/me/soaplab/internal/logging"

	// Register the shipped access protocols.
	_ "github.com/me/soaplab/pkg/analysis/soap"
)

var (
	flagConfig       string
	flagLocation     string
	flagAccess       string
	flagProxy        string
	flagTimeout      time.Duration
	flagPollInterval time.Duration
	flagKeep         bool
	flagResultDir    string
	flagDebug        bool
	flagLogLevel     string
	flagLogFormat    string

	logger  *slog.Logger
	cfgFile *config.File
)

// defaultLocation returns the default service base URL, checking the
// SOAPLAB_LOCATION env var first.
func defaultLocation() string {
	return os.Getenv("SOAPLAB_LOCATION")
}

// NewRootCmd creates the root cobra command for the soaplab CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "soaplab",
		Short: "soaplab — client for remote sequence analysis services",
		Long: "soaplab submits inputs to remote analysis services, polls jobs to\n" +
			"completion and retrieves their results.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}

			path := flagConfig
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			var err error
			if cfgFile, err = config.Load(path); err != nil {
				return err
			}

			level := flagLogLevel
			if level == "" {
				level = cfgFile.LogLevel
			}
			format := flagLogFormat
			if format == "" {
				format = cfgFile.LogFormat
			}
			logger = logging.NewLogger(logging.ParseLevel(level), format)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.soaplab/config.yaml)")
	root.PersistentFlags().StringVar(&flagLocation, "location", defaultLocation(), "Service base URL (or SOAPLAB_LOCATION env)")
	root.PersistentFlags().StringVar(&flagAccess, "access", "", "Access protocol (default soap)")
	root.PersistentFlags().StringVar(&flagProxy, "proxy", "", "HTTP proxy URL for service calls")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Overall wait timeout (0 means wait forever)")
	root.PersistentFlags().DurationVar(&flagPollInterval, "poll-interval", 0, "Delay between status polls")
	root.PersistentFlags().BoolVar(&flagKeep, "keep", false, "Keep jobs on the service instead of destroying them on exit")
	root.PersistentFlags().StringVar(&flagResultDir, "result-dir", "", "Directory for saved results")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newSubmitCmd(),
		newStatusCmd(),
		newResultsCmd(),
		newDescribeCmd(),
		newRemoveCmd(),
		newJobsCmd(),
	)

	return root
}
