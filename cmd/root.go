package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/maxleiko/bsc/client"
	"github.com/maxleiko/bsc/cmd/gen"
	"github.com/maxleiko/bsc/internal/env"
	"github.com/maxleiko/bsc/internal/meta"
	"github.com/maxleiko/bsc/protocol"
)

const (
	defaultAddr = "127.0.0.1:11300"
	dialTimeout = 5 * time.Second
)

var (
	// The server to talk to, as host:port
	addr string

	// The tube to work against
	tube string

	verbose bool

	config = &env.Config{}
)

func init() {
	flags := RootCmd.PersistentFlags()

	flags.StringVarP(&addr, "addr", "a", defaultAddr, "The beanstalkd server address")
	flags.StringVarP(&tube, "tube", "t", "default", "The tube to work against")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log what the client is doing")

	RootCmd.AddCommand(
		VersionCmd,
		PutCmd,
		GetCmd,
		DeleteCmd,
		ReleaseCmd,
		BuryCmd,
		TouchCmd,
		WatchCmd,
		IgnoreCmd,
		PeekCmd,
		PeekReadyCmd,
		PeekDelayedCmd,
		PeekBuriedCmd,
		KickCmd,
		KickJobCmd,
		StatsCmd,
		StatsJobCmd,
		StatsTubeCmd,
		ListTubesCmd,
		ListTubeUsedCmd,
		ListTubesWatchedCmd,
		PauseTubeCmd,
		ServeCmd,
		gen.RootCmd,
	)
}

var RootCmd = &cobra.Command{
	Use:     "bsc",
	Short:   "A beanstalkd command line client",
	Version: meta.Version,
	Long: `bsc is a beanstalkd command line client.

It speaks the beanstalkd wire protocol: producers put jobs into tubes,
workers reserve them, and every statistics document the server exposes
can be fetched as JSON.

The server address and tube can also come from the environment
(BSC_ADDR, BSC_TUBE), or from an .env.local file in the working
directory. A flag set on the command line always wins.
`,
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf, err := env.LoadConfig(cmd.Context())
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("addr") && conf.Addr != "" {
			addr = conf.Addr
		}

		if !cmd.Flags().Changed("tube") && conf.Tube != "" {
			tube = conf.Tube
		}

		config = conf

		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withConn runs fn against a fresh connection that is closed on the way
// out.
func withConn(cmd *cobra.Command, fn func(ctx context.Context, c *client.Conn) error) (err error) {
	ctx := cmd.Context()

	log, err := env.MakeLogger(verbose)
	if err != nil {
		return err
	}

	if !protocol.ValidName(tube) {
		return fmt.Errorf("Invalid tube name %q", tube)
	}

	c := client.New(client.Options{Addr: addr, DialTimeout: dialTimeout, Log: log})

	if err := c.Connect(ctx); err != nil {
		return fmt.Errorf("Unable to connect to %s: %w", addr, err)
	}

	defer func() {
		err = multierr.Append(err, c.Close())
	}()

	return fn(ctx, c)
}

// withUsedTube is withConn plus a use command for the selected tube, for
// the commands that operate on the currently used tube.
func withUsedTube(cmd *cobra.Command, fn func(ctx context.Context, c *client.Conn) error) error {
	return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
		if tube != "default" {
			if err := c.Use(ctx, tube); err != nil {
				return err
			}
		}

		return fn(ctx, c)
	})
}

func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid job id %q", arg)
	}

	return id, nil
}
