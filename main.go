package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/probekit/betaprobe/betaprobe"
)

var (
	BuildName       = "\b"
	BuildAnnotation = "git"
)

type cmdOpts struct {
	host       string
	outputFile string
	configFile string
	ntests     int
	timeout    float64
	delayMS    float64
	processes  int
	addresses  []string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := cmdOpts{}

	cmd := &cobra.Command{
		Use:          "betaprobe",
		Short:        "Probe a CDN beta configuration and summarize cache behavior per request signature",
		Version:      BuildName + " (" + BuildAnnotation + ")",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logrus.New()
			logger.SetOutput(os.Stderr)
			if opts.verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			cfg := betaprobe.DefaultConfig()
			cfg.Host = opts.host
			cfg.OutputFile = opts.outputFile
			cfg.TestsPerPath = opts.ntests
			cfg.Timeout = time.Duration(opts.timeout * float64(time.Second))
			cfg.Delay = time.Duration(opts.delayMS * float64(time.Millisecond))
			cfg.Processes = opts.processes
			cfg.Addresses = opts.addresses
			if opts.configFile != "" {
				if err := cfg.LoadFile(opts.configFile); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return betaprobe.Run(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "site hostname")
	cmd.Flags().StringVarP(&opts.outputFile, "outputfile", "o", "", "write results to this file")
	cmd.Flags().IntVarP(&opts.ntests, "ntests", "n", 1, "number of requests per path")
	cmd.Flags().Float64VarP(&opts.timeout, "timeout", "t", 30, "request timeout (seconds)")
	cmd.Flags().Float64VarP(&opts.delayMS, "delay", "d", 0, "wait before each request (ms)")
	cmd.Flags().IntVarP(&opts.processes, "processes", "p", 32, "number of parallel workers")
	cmd.Flags().StringSliceVarP(&opts.addresses, "addresses", "a", nil, "edge addresses to contact instead of resolving the host")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "probe profile (YAML) overriding built-in paths and cookies")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cobra.CheckErr(cmd.MarkFlagRequired("host"))
	cobra.CheckErr(cmd.MarkFlagRequired("outputfile"))

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
