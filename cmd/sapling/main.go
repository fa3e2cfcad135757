package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sapling",
		Short: "sapling is a tool to grow decision trees",
		Long:  `A tool to grow classification trees from categorical data with ID3, C4.5 or CART, store them and print them`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.Verbose), "verbose", "v", false, "log progress and tree induction details to STDERR")
	rootCmd.AddCommand(versionCmd(), growCmd(config), compareCmd(config), treeCmd(config), datasetCmd(config))
	return rootCmd
}
