package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxleiko/bsc/client"
	"github.com/maxleiko/bsc/protocol"
	"github.com/maxleiko/bsc/stats"
)

func renderList(l protocol.List) error {
	doc, err := stats.ListJSON(l)
	if err != nil {
		return err
	}

	return render(doc)
}

var ListTubesCmd = &cobra.Command{
	Use:   "list-tubes",
	Short: "Print all existing tubes as a JSON array",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			l, err := c.ListTubes(ctx)
			if err != nil {
				return err
			}

			return renderList(l)
		})
	},
}

var ListTubeUsedCmd = &cobra.Command{
	Use:   "list-tube-used",
	Short: "Print the tube new jobs are put into",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			name, err := c.ListTubeUsed(ctx)
			if err != nil {
				return err
			}

			fmt.Println(name)

			return nil
		})
	},
}

var ListTubesWatchedCmd = &cobra.Command{
	Use:   "list-tubes-watched",
	Short: "Print the watch list as a JSON array",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			l, err := c.ListTubesWatched(ctx)
			if err != nil {
				return err
			}

			return renderList(l)
		})
	},
}
