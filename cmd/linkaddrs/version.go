package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Displays the current version of linkaddrs",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("linkaddrs version v0.1.0")
		},
	}
}
