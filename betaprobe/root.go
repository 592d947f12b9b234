package betaprobe

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Run executes the whole probe pipeline: generate the request cross
// product, dispatch it across the worker pool, aggregate the outcomes and
// write the CSV. On interrupt it returns the context error without writing
// anything, so the caller can exit distinctly.
func Run(ctx context.Context, cfg Config, logger *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger.Infof("probing %s: %d requests across %d workers", cfg.Host, cfg.RequestCount(), cfg.Processes)

	exec := newExecutor(cfg, logger)
	results, err := dispatch(ctx, cfg, exec)
	if err != nil {
		return errors.Wrap(err, "probe interrupted")
	}

	groups := aggregate(results)
	if err := writeCSV(cfg.OutputFile, groups); err != nil {
		return err
	}

	logger.Infof("wrote %d result groups to %s", len(groups), cfg.OutputFile)
	printSummary(os.Stderr, groups)

	return nil
}

// printSummary writes a one-line digest per group, status colored by the
// outcome heuristic: clean groups green, empty responses yellow, errors
// and timeouts red.
func printSummary(w io.Writer, groups []Group) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, group := range groups {
		status := statusString(group.Result.StatusCode)
		switch group.Label {
		case "":
			status = green(status)
		case "empty response":
			status = yellow(status)
		default:
			status = red(status)
		}

		cookies := group.Result.SentCookies
		if cookies == "" {
			cookies = "-"
		}

		fmt.Fprintf(w, "%s %s%s cookies=[%s] n=%d avg=%.2fs %s\n",
			status, group.Result.Host, group.Result.Path, cookies,
			group.Count, group.AverageElapsed(), group.Label)
	}
}
