// Package rtnl is a minimal rtnetlink transport for enumerating links and
// their raw address records.
//
// A Conn owns a dedicated NETLINK_ROUTE socket serviced by a background
// driver goroutine. Queries are answered as lazy record streams; consumers
// never touch the socket directly.
package rtnl

// Address family tags as encoded on the rtnetlink wire.
const (
	FamilyV4 uint8 = 2  // AF_INET
	FamilyV6 uint8 = 10 // AF_INET6
)

// Link describes one kernel network interface, reduced to the attributes
// needed for address resolution. The index is only meaningful for the
// lifetime of the connection that produced it.
type Link struct {
	Index uint32
	Name  string
}

// AddrRecord is one raw kernel address entry bound to a link: the address
// family tag, the prefix length and the undecoded address attribute
// payload. The payload length is not validated here.
type AddrRecord struct {
	Family    uint8
	PrefixLen uint8
	Data      []byte
}

// LinkMessage is one element of a link stream. A message with a non-nil
// Err is terminal: the stream is closed right after it.
type LinkMessage struct {
	Link Link
	Err  error
}

// AddrMessage is one element of an address record stream, with the same
// terminal-error convention as LinkMessage.
type AddrMessage struct {
	Record AddrRecord
	Err    error
}
