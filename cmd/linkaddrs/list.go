package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/icmd/linkaddrs"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var (
		configPath string
		ipv4Only   bool
		ipv6Only   bool
		ipOnly     bool
		jsonOut    bool
		verbose    bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "list [link...]",
		Short: "Lists the IP addresses configured on the host's links",
		RunE: func(_ *cobra.Command, args []string) error {
			logger := setupLogger(verbose, quiet)

			conf, err := parseConfig(configPath)
			if err != nil {
				logger.Error("configuration error", slog.Any("error", err))
				return errSilent
			}

			if ipv4Only {
				conf.Family = "ipv4"
			}
			if ipv6Only {
				conf.Family = "ipv6"
			}
			if jsonOut {
				conf.Output = "json"
			}

			links := args
			if len(links) == 0 {
				links = conf.Interfaces
			}

			resolver := linkaddrs.New(logger)

			var addrs []linkaddrs.Addr
			if len(links) == 0 {
				addrs, err = resolveAll(resolver, conf.Family)
			} else {
				addrs, err = resolveLinks(resolver, links, conf.Family)
			}
			if err != nil {
				logger.Error("resolving addresses failed", slog.Any("error", err))
				return errSilent
			}

			return printAddrs(addrs, conf.Output, ipOnly)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "./linkaddrs.toml", "Path to the configuration file [default: ./linkaddrs.toml]")
	cmd.Flags().BoolVarP(&ipv4Only, "ipv4", "4", false, "Print IPv4 addresses only")
	cmd.Flags().BoolVarP(&ipv6Only, "ipv6", "6", false, "Print IPv6 addresses only")
	cmd.Flags().BoolVar(&ipOnly, "ip-only", false, "Print bare addresses without prefix lengths")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print debug information on stderr")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Silent mode")

	return cmd
}

func resolveLinks(r *linkaddrs.Resolver, links []string, family string) ([]linkaddrs.Addr, error) {
	var addrs []linkaddrs.Addr

	for _, link := range links {
		var (
			linkAddrs []linkaddrs.Addr
			err       error
		)

		switch family {
		case "ipv4":
			linkAddrs, err = r.IPv4Addresses(link)
		case "ipv6":
			linkAddrs, err = r.IPv6Addresses(link)
		default:
			linkAddrs, err = r.Addresses(link)
		}
		if err != nil {
			return nil, err
		}

		addrs = append(addrs, linkAddrs...)
	}

	return addrs, nil
}

func resolveAll(r *linkaddrs.Resolver, family string) ([]linkaddrs.Addr, error) {
	switch family {
	case "ipv4":
		return r.AllIPv4Addresses()
	case "ipv6":
		return r.AllIPv6Addresses()
	default:
		return r.AllAddresses()
	}
}

func printAddrs(addrs []linkaddrs.Addr, format string, ipOnly bool) error {
	if format == "json" {
		type entry struct {
			Address string `json:"address"`
			Prefix  *int   `json:"prefix,omitempty"`
		}

		entries := make([]entry, len(addrs))
		for i, addr := range addrs {
			entries[i] = entry{Address: addr.IP.String()}
			if !ipOnly {
				prefix := addr.Prefix()
				entries[i].Prefix = &prefix
			}
		}

		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, addr := range addrs {
		if ipOnly {
			fmt.Println(addr.IP.String())
		} else {
			fmt.Println(addr.String())
		}
	}
	return nil
}
