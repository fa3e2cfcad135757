package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major version of sapling
	VersionMajor = 0
	// VersionMinor is the minor version of sapling
	VersionMinor = 1
	// VersionPatch is the patch version of sapling
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sapling",
		Long:  `All software has versions. This is sapling's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sapling v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
