//go:build linux

package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voluzi/process-watcher/internal/environ"
	"github.com/voluzi/process-watcher/pkg/capture"
	"github.com/voluzi/process-watcher/pkg/procfs"
)

var captureInterval time.Duration
var captureAppend bool
var captureFsync bool

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Start a capturing process",
	Long: `Start a capturing process writing to process-watcher.out in the working directory.
It runs until it receives SIGINT or SIGTERM: stop it with kill PW_PID.`,
	Args: argCount(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		host, err := procfs.NewHost(environ.GetString("HOST_PROC", procfs.DefaultRoot))
		if err != nil {
			return err
		}
		capturer := capture.New(host, host,
			capture.WithPath(capture.DefaultPath),
			capture.WithInterval(captureInterval),
			capture.WithAppend(captureAppend),
			capture.WithFsync(captureFsync),
		)
		return capturer.Run(ctx)
	},
}

func init() {
	captureCmd.Flags().DurationVar(&captureInterval, "interval",
		environ.GetDuration("CAPTURE_INTERVAL", capture.DefaultInterval),
		"Delay between two samples",
	)
	captureCmd.Flags().BoolVar(&captureAppend, "append",
		environ.GetBool("CAPTURE_APPEND", false),
		"Keep an existing history file and append to it instead of truncating it",
	)
	captureCmd.Flags().BoolVar(&captureFsync, "fsync",
		environ.GetBool("CAPTURE_FSYNC", false),
		"Sync every snapshot to disk before releasing the lock",
	)
	rootCmd.AddCommand(captureCmd)
}
