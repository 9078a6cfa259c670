package cli

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ragchat version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("ragchat version %s\n", version)
		if info, ok := debug.ReadBuildInfo(); ok {
			cmd.Printf("  go: %s\n", info.GoVersion)
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					cmd.Printf("  commit: %s\n", setting.Value)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
