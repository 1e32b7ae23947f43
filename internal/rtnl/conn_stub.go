//go:build !linux
// +build !linux

package rtnl

import (
	"context"
	"errors"
	"log/slog"
)

// ErrUnsupported reports that the kernel routing subsystem cannot be
// queried on this platform.
var ErrUnsupported = errors.New("netlink connection failed: unsupported platform")

// Conn is a stub connection for platforms without rtnetlink.
type Conn struct{}

// Dial always fails on non-Linux platforms.
func Dial(_ *slog.Logger) (*Conn, error) {
	return nil, ErrUnsupported
}

func (c *Conn) Close() error { return nil }

func (c *Conn) Links(_ context.Context) <-chan LinkMessage {
	out := make(chan LinkMessage)
	close(out)
	return out
}

func (c *Conn) LinkByName(_ context.Context, _ string) <-chan LinkMessage {
	out := make(chan LinkMessage)
	close(out)
	return out
}

func (c *Conn) Addrs(_ context.Context, _ uint32) <-chan AddrMessage {
	out := make(chan AddrMessage)
	close(out)
	return out
}
