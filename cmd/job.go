package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxleiko/bsc/client"
)

var (
	releasePriority uint32
	releaseDelay    uint64
	buryPriority    uint32
)

func init() {
	flags := ReleaseCmd.Flags()
	flags.Uint32VarP(&releasePriority, "priority", "p", 0, "New priority for the released job")
	flags.Uint64VarP(&releaseDelay, "delay", "d", 0, "Seconds to wait before the job becomes ready again")

	BuryCmd.Flags().Uint32VarP(&buryPriority, "priority", "p", 0, "New priority for the buried job")
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			return c.Delete(ctx, id)
		})
	},
}

var ReleaseCmd = &cobra.Command{
	Use:   "release <id>",
	Short: "Release a reserved job back to the ready queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			delay := time.Duration(releaseDelay) * time.Second

			return c.Release(ctx, id, releasePriority, delay)
		})
	},
}

var BuryCmd = &cobra.Command{
	Use:   "bury <id>",
	Short: "Move a reserved job to the buried list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			return c.Bury(ctx, id, buryPriority)
		})
	},
}

var TouchCmd = &cobra.Command{
	Use:   "touch <id>",
	Short: "Request more time to run a reserved job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			return c.Touch(ctx, id)
		})
	},
}
