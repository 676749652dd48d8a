package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxleiko/bsc/client"
)

var KickCmd = &cobra.Command{
	Use:   "kick <bound>",
	Short: "Move up to bound buried or delayed jobs back to ready",
	Long: `Move up to bound jobs of the current tube back to the ready queue
and print how many were actually moved.

Buried jobs are kicked first. Delayed jobs are only kicked once the
tube has no buried jobs left.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bound, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("Invalid bound %q", args[0])
		}

		return withUsedTube(cmd, func(ctx context.Context, c *client.Conn) error {
			count, err := c.Kick(ctx, bound)
			if err != nil {
				return err
			}

			fmt.Println(count)

			return nil
		})
	},
}

var KickJobCmd = &cobra.Command{
	Use:   "kick-job <id>",
	Short: "Move a single buried or delayed job back to ready",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			return c.KickJob(ctx, id)
		})
	},
}
