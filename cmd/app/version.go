package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/CommentGarden_Go/internal/handler"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := handler.CurrentVersionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "comment-garden %s (%s, commit %s, built %s)\n",
				info.Version, info.GoVersion, info.GitCommit, info.BuildTime)
		},
	}
}
