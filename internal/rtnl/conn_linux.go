//go:build linux
// +build linux

package rtnl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

var native = nl.NativeEndian()

type reqKind int

const (
	reqLinkDump reqKind = iota
	reqLinkByName
	reqAddrDump
)

type request struct {
	kind  reqKind
	name  string
	index uint32

	ctx   context.Context
	links chan<- LinkMessage
	addrs chan<- AddrMessage
}

// Conn is a one-shot connection to the kernel routing subsystem. All
// socket I/O happens on the driver goroutine; Links, LinkByName and Addrs
// only exchange messages with it.
type Conn struct {
	logger *slog.Logger
	sock   *nl.NetlinkSocket
	reqs   chan request
	done   chan struct{}
	eg     errgroup.Group
}

// Dial opens a fresh NETLINK_ROUTE socket and starts the driver goroutine
// servicing it. The caller must Close the connection when done.
func Dial(logger *slog.Logger) (*Conn, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sock, err := nl.Subscribe(unix.NETLINK_ROUTE)
	if err != nil {
		return nil, fmt.Errorf("netlink connection failed: %w", err)
	}

	c := &Conn{
		logger: logger,
		sock:   sock,
		reqs:   make(chan request),
		done:   make(chan struct{}),
	}
	c.eg.Go(c.run)

	return c, nil
}

// Close stops the driver, unblocks any stream still being delivered and
// releases the socket.
func (c *Conn) Close() error {
	close(c.done)
	err := c.eg.Wait()
	c.sock.Close()
	return err
}

// Links streams every link known to the kernel.
func (c *Conn) Links(ctx context.Context) <-chan LinkMessage {
	out := make(chan LinkMessage)
	c.submit(request{kind: reqLinkDump, ctx: ctx, links: out}, func() { close(out) })
	return out
}

// LinkByName streams the single link carrying the given name. A name that
// matches nothing yields an empty stream, not an error.
func (c *Conn) LinkByName(ctx context.Context, name string) <-chan LinkMessage {
	out := make(chan LinkMessage)
	c.submit(request{kind: reqLinkByName, name: name, ctx: ctx, links: out}, func() { close(out) })
	return out
}

// Addrs streams the raw address records bound to the link with the given
// index.
func (c *Conn) Addrs(ctx context.Context, index uint32) <-chan AddrMessage {
	out := make(chan AddrMessage)
	c.submit(request{kind: reqAddrDump, index: index, ctx: ctx, addrs: out}, func() { close(out) })
	return out
}

func (c *Conn) submit(req request, abort func()) {
	select {
	case c.reqs <- req:
	case <-c.done:
		abort()
	case <-req.ctx.Done():
		abort()
	}
}

func (c *Conn) run() error {
	for {
		select {
		case <-c.done:
			return nil
		case req := <-c.reqs:
			c.serve(req)
		}
	}
}

// serve reads the full kernel response on the driver goroutine and hands
// delivery off to a separate goroutine, so the consumer may interleave
// link consumption with address requests on the same connection.
func (c *Conn) serve(req request) {
	switch req.kind {
	case reqLinkDump, reqLinkByName:
		links, err := c.execLinks(req)
		c.eg.Go(func() error {
			defer close(req.links)
			for _, link := range links {
				select {
				case req.links <- LinkMessage{Link: link}:
				case <-req.ctx.Done():
					return nil
				case <-c.done:
					return nil
				}
			}
			if err != nil {
				select {
				case req.links <- LinkMessage{Err: err}:
				case <-req.ctx.Done():
				case <-c.done:
				}
			}
			return nil
		})

	case reqAddrDump:
		records, err := c.execAddrs(req.index)
		c.eg.Go(func() error {
			defer close(req.addrs)
			for _, rec := range records {
				select {
				case req.addrs <- AddrMessage{Record: rec}:
				case <-req.ctx.Done():
					return nil
				case <-c.done:
					return nil
				}
			}
			if err != nil {
				select {
				case req.addrs <- AddrMessage{Err: err}:
				case <-req.ctx.Done():
				case <-c.done:
				}
			}
			return nil
		})
	}
}

func (c *Conn) execLinks(req request) ([]Link, error) {
	flags := unix.NLM_F_DUMP
	if req.kind == reqLinkByName {
		flags = 0
	}

	nlreq := nl.NewNetlinkRequest(unix.RTM_GETLINK, flags)
	nlreq.AddData(nl.NewIfInfomsg(unix.AF_UNSPEC))
	if req.kind == reqLinkByName {
		nlreq.AddData(nl.NewRtAttr(unix.IFLA_IFNAME, nl.ZeroTerminated(req.name)))
	}

	msgs, err := c.exec(nlreq, unix.RTM_NEWLINK, req.kind != reqLinkByName)
	if err != nil {
		// The kernel answers a by-name lookup with ENODEV when nothing
		// matches (EINVAL for an empty name); both mean zero links.
		if req.kind == reqLinkByName &&
			(errors.Is(err, unix.ENODEV) || errors.Is(err, unix.EINVAL)) {
			return nil, nil
		}
		return nil, err
	}

	links := make([]Link, 0, len(msgs))
	for _, m := range msgs {
		ifm := nl.DeserializeIfInfomsg(m)

		attrs, err := nl.ParseRouteAttr(m[ifm.Len():])
		if err != nil {
			return nil, fmt.Errorf("netlink request failed: %w", err)
		}

		link := Link{Index: uint32(ifm.Index)}
		for _, attr := range attrs {
			if attr.Attr.Type == unix.IFLA_IFNAME && len(attr.Value) > 0 {
				link.Name = string(attr.Value[:len(attr.Value)-1])
			}
		}
		links = append(links, link)
	}

	c.logger.Debug(
		"rtnl: links enumerated",
		slog.String("filter", req.name),
		slog.Int("count", len(links)),
	)

	return links, nil
}

func (c *Conn) execAddrs(index uint32) ([]AddrRecord, error) {
	nlreq := nl.NewNetlinkRequest(unix.RTM_GETADDR, unix.NLM_F_DUMP)
	nlreq.AddData(nl.NewIfInfomsg(unix.AF_UNSPEC))

	msgs, err := c.exec(nlreq, unix.RTM_NEWADDR, true)
	if err != nil {
		return nil, err
	}

	var records []AddrRecord
	for _, m := range msgs {
		ifa := nl.DeserializeIfAddrmsg(m)
		if ifa.Index != index {
			continue
		}

		attrs, err := nl.ParseRouteAttr(m[ifa.Len():])
		if err != nil {
			return nil, fmt.Errorf("netlink request failed: %w", err)
		}

		rec := AddrRecord{Family: ifa.Family, PrefixLen: ifa.Prefixlen}
		var local []byte
		for _, attr := range attrs {
			switch attr.Attr.Type {
			case unix.IFA_ADDRESS:
				rec.Data = attr.Value
			case unix.IFA_LOCAL:
				local = attr.Value
			}
		}
		// Point-to-point links report the peer in IFA_ADDRESS; IFA_LOCAL
		// is the interface address when present.
		if local != nil {
			rec.Data = local
		}

		records = append(records, rec)
	}

	c.logger.Debug(
		"rtnl: address records enumerated",
		slog.Uint64("link_index", uint64(index)),
		slog.Int("count", len(records)),
	)

	return records, nil
}

// exec sends one request and reads its complete response. Dumps terminate
// on NLMSG_DONE, single lookups on the first answer.
func (c *Conn) exec(req *nl.NetlinkRequest, resType uint16, dump bool) ([][]byte, error) {
	if err := c.sock.Send(req); err != nil {
		return nil, fmt.Errorf("netlink request failed: %w", err)
	}

	pid, err := c.sock.GetPid()
	if err != nil {
		return nil, fmt.Errorf("netlink request failed: %w", err)
	}

	var res [][]byte
	for {
		msgs, from, err := c.sock.Receive()
		if err != nil {
			return nil, fmt.Errorf("netlink request failed: %w", err)
		}
		if from.Pid != nl.PidKernel {
			continue
		}

		for _, m := range msgs {
			if m.Header.Seq != req.Seq || m.Header.Pid != pid {
				continue
			}

			switch m.Header.Type {
			case unix.NLMSG_DONE:
				return res, nil

			case unix.NLMSG_ERROR:
				if len(m.Data) < 4 {
					return nil, fmt.Errorf("netlink request failed: truncated error message")
				}
				errno := -int32(native.Uint32(m.Data[0:4]))
				if errno == 0 {
					return res, nil
				}
				return nil, fmt.Errorf("netlink request failed: %w", syscall.Errno(errno))

			case resType:
				res = append(res, m.Data)
				if !dump {
					return res, nil
				}
			}
		}
	}
}
