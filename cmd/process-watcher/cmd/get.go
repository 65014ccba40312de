//go:build linux

package cmd

import (
	"fmt"
	"slices"
	"strconv"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/process-watcher/internal/environ"
	"github.com/voluzi/process-watcher/internal/timestamp"
	"github.com/voluzi/process-watcher/pkg/capture"
	"github.com/voluzi/process-watcher/pkg/query"
	"github.com/voluzi/process-watcher/pkg/report"
)

var outputFormat string
var humanSizes bool

var getCmd = &cobra.Command{
	Use:   "get PID BEGIN END",
	Short: "Collect the max of each measure of a process tree between two times",
	Long: `Target the process tree rooted at PID and collect the max of each measure
between BEGIN and END times. Times are written as YYYYMMDDhhmmss in UTC.`,
	Args: argCount(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(report.Formats, outputFormat) {
			return fmt.Errorf("unsupported output format %q, expected one of %v", outputFormat, report.Formats)
		}

		q, err := parseQuery(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		res, err := query.NewEngine(capture.DefaultPath).Run(q)
		if err != nil {
			return err
		}
		log.WithFields(map[string]interface{}{
			"pid":       q.TopPid,
			"snapshots": res.InWindow,
			"matched":   res.Matched,
		}).Debug("query finished")

		return report.Write(cmd.OutOrStdout(), res, report.Options{
			Format: report.Format(outputFormat),
			Human:  humanSizes,
		})
	},
}

func parseQuery(pidString, beginString, endString string) (query.Query, error) {
	var q query.Query

	pid, err := strconv.ParseInt(pidString, 10, 64)
	if err != nil {
		return q, errors.Wrapf(err, "could not parse pid string %s", pidString)
	}
	if pid < 1 || pid > 1<<31-1 {
		return q, errors.Errorf("cannot decode pid %s: out of range", pidString)
	}
	q.TopPid = int32(pid)

	if q.Begin, err = timestamp.Parse(beginString); err != nil {
		return q, err
	}
	if q.End, err = timestamp.Parse(endString); err != nil {
		return q, err
	}
	return q, q.Validate()
}

func init() {
	getCmd.Flags().StringVarP(&outputFormat, "output", "o",
		environ.GetOneOf("OUTPUT_FORMAT", string(report.Text), report.Formats...),
		fmt.Sprintf("Output format. One of %v.", report.Formats),
	)
	getCmd.Flags().BoolVar(&humanSizes, "human",
		environ.GetBool("HUMAN_SIZES", false),
		"Print sizes in human readable form (text output only)",
	)
	rootCmd.AddCommand(getCmd)
}
