package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/maxleiko/bsc/client"
)

var peekUTF8 bool

func init() {
	for _, cmd := range []*cobra.Command{PeekCmd, PeekReadyCmd, PeekDelayedCmd, PeekBuriedCmd} {
		cmd.Flags().BoolVar(&peekUTF8, "utf8", false, "Refuse to print a body that is not valid UTF-8")
	}
}

// printJob writes the job body on stdout and the job id on stderr, so
// that piped consumers only see the body.
func printJob(job client.Job) error {
	if peekUTF8 && !utf8.Valid(job.Body) {
		return fmt.Errorf("Body of job %d is not valid UTF-8", job.ID)
	}

	fmt.Fprintln(os.Stderr, job.ID)

	if _, err := os.Stdout.Write(job.Body); err != nil {
		return err
	}
	fmt.Println()

	return nil
}

var PeekCmd = &cobra.Command{
	Use:   "peek <id>",
	Short: "Print the body of a job without reserving it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			job, err := c.Peek(ctx, id)
			if err != nil {
				return err
			}

			return printJob(job)
		})
	},
}

var PeekReadyCmd = &cobra.Command{
	Use:   "peek-ready",
	Short: "Print the next ready job of the current tube",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return peekState(cmd, (*client.Conn).PeekReady)
	},
}

var PeekDelayedCmd = &cobra.Command{
	Use:   "peek-delayed",
	Short: "Print the delayed job of the current tube with the shortest delay left",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return peekState(cmd, (*client.Conn).PeekDelayed)
	},
}

var PeekBuriedCmd = &cobra.Command{
	Use:   "peek-buried",
	Short: "Print the oldest buried job of the current tube",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return peekState(cmd, (*client.Conn).PeekBuried)
	},
}

func peekState(cmd *cobra.Command, peek func(*client.Conn, context.Context) (client.Job, error)) error {
	return withUsedTube(cmd, func(ctx context.Context, c *client.Conn) error {
		job, err := peek(c, ctx)
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("No such job in tube %q", tube)
		}
		if err != nil {
			return err
		}

		return printJob(job)
	})
}
