// Package linkaddrs resolves the IP addresses configured on the host's
// network interfaces by querying the kernel over rtnetlink.
//
// Every call performs a fresh one-shot query: it dials its own netlink
// connection, drains the link and address enumerations to completion and
// tears the connection down before returning. Results preserve the
// kernel's enumeration order and carry the prefix length of each address.
// Linux only; on other platforms every query fails with an unsupported
// platform error.
package linkaddrs

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/icmd/linkaddrs/internal/rtnl"
)

// transport abstracts the netlink connection, so the resolution pipeline
// can be driven from canned record streams in tests.
type transport interface {
	Links(ctx context.Context) <-chan rtnl.LinkMessage
	LinkByName(ctx context.Context, name string) <-chan rtnl.LinkMessage
	Addrs(ctx context.Context, index uint32) <-chan rtnl.AddrMessage
	Close() error
}

// Resolver answers address queries against the kernel.
type Resolver struct {
	logger *slog.Logger
	dial   func(*slog.Logger) (transport, error)
}

// New creates a Resolver. A nil logger disables logging.
func New(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Resolver{
		logger: logger,
		dial: func(l *slog.Logger) (transport, error) {
			conn, err := rtnl.Dial(l)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
	}
}

// Addresses resolves the addresses of the named link, in kernel
// enumeration order. It returns a LinkNotFoundError when no link matches
// the name.
func (r *Resolver) Addresses(link string) ([]Addr, error) {
	return r.resolve(link, true, false)
}

// AllAddresses resolves the addresses of every link on the host. A host
// without links yields an empty, non-error result.
func (r *Resolver) AllAddresses() ([]Addr, error) {
	return r.resolve("", false, false)
}

// IPv4Addresses resolves the named link's addresses and keeps the IPv4
// entries, preserving their relative order.
func (r *Resolver) IPv4Addresses(link string) ([]Addr, error) {
	addrs, err := r.Addresses(link)
	if err != nil {
		return nil, err
	}
	return filterAddrs(addrs, Addr.IsIPv4), nil
}

// IPv6Addresses resolves the named link's addresses and keeps the IPv6
// entries, preserving their relative order.
func (r *Resolver) IPv6Addresses(link string) ([]Addr, error) {
	addrs, err := r.Addresses(link)
	if err != nil {
		return nil, err
	}
	return filterAddrs(addrs, Addr.IsIPv6), nil
}

// AllIPv4Addresses resolves every link's addresses and keeps the IPv4
// entries.
func (r *Resolver) AllIPv4Addresses() ([]Addr, error) {
	addrs, err := r.AllAddresses()
	if err != nil {
		return nil, err
	}
	return filterAddrs(addrs, Addr.IsIPv4), nil
}

// AllIPv6Addresses resolves every link's addresses and keeps the IPv6
// entries.
func (r *Resolver) AllIPv6Addresses() ([]Addr, error) {
	addrs, err := r.AllAddresses()
	if err != nil {
		return nil, err
	}
	return filterAddrs(addrs, Addr.IsIPv6), nil
}

// IPs resolves the named link's addresses as bare IPs, without their
// prefixes.
func (r *Resolver) IPs(link string) ([]net.IP, error) {
	addrs, err := r.Addresses(link)
	if err != nil {
		return nil, err
	}
	return bareIPs(addrs), nil
}

// AllIPs resolves every link's addresses as bare IPs, without their
// prefixes. Unlike AllAddresses, a host without any links is reported as
// a LinkNotFoundError.
func (r *Resolver) AllIPs() ([]net.IP, error) {
	addrs, err := r.resolve("", false, true)
	if err != nil {
		return nil, err
	}
	return bareIPs(addrs), nil
}

// resolve runs the whole pipeline: enumerate links (optionally restricted
// to one name at the query level), drain each link's address records in
// order, decode them and flatten the results. Any stream error aborts the
// call; partial results are never returned.
func (r *Resolver) resolve(name string, byName, strict bool) ([]Addr, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := r.dial(r.logger)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var links <-chan rtnl.LinkMessage
	if byName {
		links = conn.LinkByName(ctx, name)
	} else {
		links = conn.Links(ctx)
	}

	var (
		numLinks int
		addrs    []Addr
	)

	for msg := range links {
		if msg.Err != nil {
			return nil, msg.Err
		}

		linkAddrs, err := r.linkAddresses(ctx, conn, msg.Link)
		if err != nil {
			return nil, err
		}

		addrs = append(addrs, linkAddrs...)
		numLinks++
	}

	if numLinks == 0 && (byName || strict) {
		return nil, &LinkNotFoundError{Link: name}
	}

	r.logger.Debug(
		"linkaddrs: addresses resolved",
		slog.String("filter", name),
		slog.Int("links", numLinks),
		slog.Int("addresses", len(addrs)),
	)

	return addrs, nil
}

func (r *Resolver) linkAddresses(
	ctx context.Context,
	conn transport,
	link rtnl.Link,
) ([]Addr, error) {
	var addrs []Addr

	for msg := range conn.Addrs(ctx, link.Index) {
		if msg.Err != nil {
			return nil, msg.Err
		}

		addr, ok := decodeAddr(msg.Record)
		if !ok {
			continue
		}
		addrs = append(addrs, addr)
	}

	return addrs, nil
}

func filterAddrs(addrs []Addr, keep func(Addr) bool) []Addr {
	result := make([]Addr, 0, len(addrs))
	for _, addr := range addrs {
		if keep(addr) {
			result = append(result, addr)
		}
	}
	return result
}

func bareIPs(addrs []Addr) []net.IP {
	result := make([]net.IP, len(addrs))
	for i, addr := range addrs {
		result[i] = addr.IP
	}
	return result
}

var defaultResolver = New(nil)

// Addresses resolves the named link's addresses with the default
// Resolver.
func Addresses(link string) ([]Addr, error) {
	return defaultResolver.Addresses(link)
}

// AllAddresses resolves every link's addresses with the default Resolver.
func AllAddresses() ([]Addr, error) {
	return defaultResolver.AllAddresses()
}

// IPv4Addresses resolves the named link's IPv4 addresses with the default
// Resolver.
func IPv4Addresses(link string) ([]Addr, error) {
	return defaultResolver.IPv4Addresses(link)
}

// IPv6Addresses resolves the named link's IPv6 addresses with the default
// Resolver.
func IPv6Addresses(link string) ([]Addr, error) {
	return defaultResolver.IPv6Addresses(link)
}

// AllIPv4Addresses resolves every link's IPv4 addresses with the default
// Resolver.
func AllIPv4Addresses() ([]Addr, error) {
	return defaultResolver.AllIPv4Addresses()
}

// AllIPv6Addresses resolves every link's IPv6 addresses with the default
// Resolver.
func AllIPv6Addresses() ([]Addr, error) {
	return defaultResolver.AllIPv6Addresses()
}

// IPs resolves the named link's bare IPs with the default Resolver.
func IPs(link string) ([]net.IP, error) {
	return defaultResolver.IPs(link)
}

// AllIPs resolves every link's bare IPs with the default Resolver.
func AllIPs() ([]net.IP, error) {
	return defaultResolver.AllIPs()
}
