package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var errSilent = errors.New("SilentErr")

func Execute() {
	rootCmd := &cobra.Command{
		Use:   "linkaddrs",
		Short: "linkaddrs is a utility for inspecting the IP addresses of network interfaces.",
		Long: `linkaddrs is a command-line utility that resolves the IP address
configuration of the host's network interfaces over rtnetlink and prints
the results as CIDR networks, optionally restricted to named links or to
one address family.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.Println(err)
		cmd.Println(cmd.UsageString())
		return errSilent
	})
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
