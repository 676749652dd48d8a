package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxleiko/bsc/internal/meta"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := meta.GetInfo()

		fmt.Printf("bsc %s\n", info.Version)
		fmt.Printf("  build:      %s\n", info.Build)
		fmt.Printf("  branch:     %s\n", info.Branch)
		fmt.Printf("  built at:   %s\n", info.BuildTime)
		fmt.Printf("  go version: %s\n", info.GoVersion)
		fmt.Printf("  platform:   %s\n", info.Platform)

		return nil
	},
}
