package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxleiko/bsc/client"
)

var (
	putPriority uint32
	putDelay    uint64
	putTTR      uint64
)

func init() {
	flags := PutCmd.Flags()

	flags.Uint32VarP(&putPriority, "priority", "p", 0, "Job priority, lower runs first")
	flags.Uint64VarP(&putDelay, "delay", "d", 0, "Seconds to wait before the job becomes ready")
	flags.Uint64VarP(&putTTR, "ttr", "r", 10, "Seconds a worker is allowed to run the job")
}

var PutCmd = &cobra.Command{
	Use:   "put [body]",
	Short: "Insert a job into the current tube",
	Long: `Insert a job into the current tube.

The job body is taken from the argument when one is given, otherwise it
is read from stdin until EOF. The inserted job id is printed on stdout.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body []byte

		if len(args) == 1 {
			body = []byte(args[0])
		} else {
			in, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("Unable to read the job body from stdin: %w", err)
			}

			body = in
		}

		return withUsedTube(cmd, func(ctx context.Context, c *client.Conn) error {
			delay := time.Duration(putDelay) * time.Second
			ttr := time.Duration(putTTR) * time.Second

			id, err := c.Put(ctx, body, putPriority, delay, ttr)
			if errors.Is(err, client.ErrBuried) {
				return fmt.Errorf("Job %d was inserted but immediately buried", id)
			}
			if err != nil {
				return err
			}

			fmt.Println(id)

			return nil
		})
	},
}
