package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxleiko/bsc/client"
)

var (
	getDelete  bool
	getTimeout uint64
)

func init() {
	flags := GetCmd.Flags()

	flags.BoolVarP(&getDelete, "delete", "d", false, "Delete the job instead of releasing it back")
	flags.Uint64Var(&getTimeout, "timeout", 0, "Reserve timeout in seconds, 0 blocks forever")
}

var GetCmd = &cobra.Command{
	Use:   "get",
	Short: "Reserve the next ready job and print its body",
	Long: `Reserve the next ready job on the current tube and print its body
on stdout.

The job is released back to the tube afterwards unless --delete is set.
With a timeout of 0 the command blocks until a job becomes ready.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			if tube != "default" {
				if _, err := c.Watch(ctx, tube); err != nil {
					return err
				}
				if _, err := c.Ignore(ctx, "default"); err != nil {
					return err
				}
			}

			var (
				job client.Job
				err error
			)

			if getTimeout == 0 {
				job, err = c.Reserve(ctx)
			} else {
				job, err = c.ReserveWithTimeout(ctx, time.Duration(getTimeout)*time.Second)
			}
			if err != nil {
				return err
			}

			if _, err := os.Stdout.Write(job.Body); err != nil {
				return err
			}
			fmt.Println()

			if getDelete {
				return c.Delete(ctx, job.ID)
			}

			return c.Release(ctx, job.ID, 0, 0)
		})
	},
}
