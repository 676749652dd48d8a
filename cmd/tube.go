package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxleiko/bsc/client"
	"github.com/maxleiko/bsc/protocol"
)

var pauseDelay uint64

func init() {
	PauseTubeCmd.Flags().Uint64VarP(&pauseDelay, "delay", "d", 0, "Seconds the tube stays paused")
}

var WatchCmd = &cobra.Command{
	Use:   "watch <tube>",
	Short: "Add a tube to the watch list and print its new size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !protocol.ValidName(name) {
			return fmt.Errorf("Invalid tube name %q", name)
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			count, err := c.Watch(ctx, name)
			if err != nil {
				return err
			}

			fmt.Println(count)

			return nil
		})
	},
}

var IgnoreCmd = &cobra.Command{
	Use:   "ignore <tube>",
	Short: "Remove a tube from the watch list and print its new size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !protocol.ValidName(name) {
			return fmt.Errorf("Invalid tube name %q", name)
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			count, err := c.Ignore(ctx, name)
			if err != nil {
				return err
			}

			fmt.Println(count)

			return nil
		})
	},
}

var PauseTubeCmd = &cobra.Command{
	Use:   "pause-tube <tube>",
	Short: "Stop a tube from handing out jobs for a while",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !protocol.ValidName(name) {
			return fmt.Errorf("Invalid tube name %q", name)
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			delay := time.Duration(pauseDelay) * time.Second

			return c.PauseTube(ctx, name, delay)
		})
	},
}
