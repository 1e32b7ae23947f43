package linkaddrs

import (
	"net"

	"github.com/icmd/linkaddrs/internal/rtnl"
)

// decodeAddr maps one raw kernel address record to a concrete network
// value. It reports false when the family is neither IPv4 nor IPv6, or
// when the payload length does not match the declared family, so such
// records are dropped instead of failing the resolution.
func decodeAddr(rec rtnl.AddrRecord) (Addr, bool) {
	var bits int

	switch rec.Family {
	case rtnl.FamilyV4:
		if len(rec.Data) != net.IPv4len {
			return Addr{}, false
		}
		bits = 32

	case rtnl.FamilyV6:
		if len(rec.Data) != net.IPv6len {
			return Addr{}, false
		}
		bits = 128

	default:
		return Addr{}, false
	}

	ip := make(net.IP, len(rec.Data))
	copy(ip, rec.Data)

	return Addr{IPNet: &net.IPNet{
		IP:   ip,
		Mask: net.CIDRMask(int(rec.PrefixLen), bits),
	}}, true
}
