package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/maxleiko/bsc/client"
	"github.com/maxleiko/bsc/protocol"
	"github.com/maxleiko/bsc/stats"
)

var (
	filterPath string
	pretty     bool
)

func init() {
	for _, cmd := range []*cobra.Command{
		StatsCmd, StatsJobCmd, StatsTubeCmd,
		ListTubesCmd, ListTubesWatchedCmd,
	} {
		flags := cmd.Flags()
		flags.StringVarP(&filterPath, "filter", "f", "", "Print only the value at this gjson path")
		flags.BoolVarP(&pretty, "pretty", "P", false, "Pretty print the JSON output")
	}
}

// render prints a JSON document on stdout, narrowed to --filter when one
// was given.
func render(doc []byte) error {
	if filterPath != "" {
		res := gjson.GetBytes(doc, filterPath)
		if !res.Exists() {
			return fmt.Errorf("Nothing at path %q", filterPath)
		}

		fmt.Println(res.String())

		return nil
	}

	if pretty {
		fmt.Print(gjson.GetBytes(doc, "@pretty").Raw)

		return nil
	}

	fmt.Println(string(doc))

	return nil
}

func renderMap(m protocol.Map) error {
	doc, err := stats.MapJSON(m)
	if err != nil {
		return err
	}

	return render(doc)
}

var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print server statistics as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			m, err := c.Stats(ctx)
			if err != nil {
				return err
			}

			return renderMap(m)
		})
	},
}

var StatsJobCmd = &cobra.Command{
	Use:   "stats-job <id>",
	Short: "Print the statistics of a job as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			m, err := c.StatsJob(ctx, id)
			if err != nil {
				return err
			}

			return renderMap(m)
		})
	},
}

var StatsTubeCmd = &cobra.Command{
	Use:   "stats-tube [tube]",
	Short: "Print the statistics of a tube as JSON",
	Long: `Print the statistics of a tube as JSON.

Without an argument the current tube is used.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := tube
		if len(args) == 1 {
			name = args[0]
		}

		if !protocol.ValidName(name) {
			return fmt.Errorf("Invalid tube name %q", name)
		}

		return withConn(cmd, func(ctx context.Context, c *client.Conn) error {
			m, err := c.StatsTube(ctx, name)
			if err != nil {
				return err
			}

			return renderMap(m)
		})
	},
}
