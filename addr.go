package linkaddrs

import (
	"net"
)

// Addr represents one resolved IP network: an address paired with its
// prefix length. It encapsulates `net.IPNet`.
type Addr struct {
	*net.IPNet
}

// ParseCIDR parses s as a CIDR notation, keeping the address part instead
// of the base address of the network.
func ParseCIDR(s string) (Addr, error) {
	ip, ipNet, err := net.ParseCIDR(s)
	if err != nil {
		return Addr{}, err
	}
	ipNet.IP = ip
	return Addr{IPNet: ipNet}, nil
}

// ParseIP parses s as IP notation with a full-length prefix.
func ParseIP(s string) Addr {
	return IP(net.ParseIP(s))
}

// IP converts ip to Addr with a full-length prefix.
func IP(ip net.IP) Addr {
	bits := 32
	if ip.To4() == nil && len(ip) == net.IPv6len {
		bits = 128
	}

	mask := net.CIDRMask(bits, bits)
	return Addr{IPNet: &net.IPNet{IP: ip, Mask: mask}}
}

// IsIPv4 reports whether network address is v4.
func (addr Addr) IsIPv4() bool {
	return addr.IP.To4() != nil
}

// IsIPv6 reports whether network address is v6.
func (addr Addr) IsIPv6() bool {
	return addr.IP.To4() == nil && addr.IP.To16() != nil
}

// Prefix returns the prefix length in bits.
func (addr Addr) Prefix() int {
	ones, _ := addr.Mask.Size()
	return ones
}

// String returns the CIDR notation of addr.
func (addr Addr) String() string {
	if addr.IPNet == nil {
		return "<nil>"
	}
	return addr.IPNet.String()
}
