//go:build linux

package cmd

import (
	"fmt"
	"os"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/process-watcher/internal/environ"
)

var directory string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "process-watcher",
	Short: "Record process memory usage and query process tree peaks",
	Long: `process-watcher samples the memory usage of every process on the host into
process-watcher.out, and reports the peak usage of a process tree over a time window.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(logLvl)

		if directory != "" {
			if err := os.Chdir(directory); err != nil {
				return errors.Wrap(err, "could not cd to the directory")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&directory,
		"directory", "C",
		environ.GetString("PROCESS_WATCHER_DIRECTORY", ""),
		"Use DIR as working directory instead of current working directory.",
	)
	rootCmd.PersistentFlags().StringVar(&logLevel,
		"log-level",
		environ.GetString("LOG_LEVEL", "info"),
		"Log level. One of trace, debug, info, warn, error, fatal, panic.",
	)
}

// argCount accepts exactly n positional arguments.
func argCount(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) < n:
			return errors.New("missing parameter")
		case len(args) > n:
			return errors.New("too many arguments")
		}
		return nil
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
