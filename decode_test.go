package linkaddrs

import (
	"fmt"
	"testing"

	"github.com/icmd/linkaddrs/internal/rtnl"
	"github.com/stretchr/testify/require"
)

func TestDecodeAddrIPv4(t *testing.T) {
	addr, ok := decodeAddr(rtnl.AddrRecord{
		Family:    rtnl.FamilyV4,
		PrefixLen: 8,
		Data:      []byte{127, 0, 0, 1},
	})

	require.True(t, ok)
	require.Equal(t, "127.0.0.1/8", addr.String())
	require.True(t, addr.IsIPv4())
	require.False(t, addr.IsIPv6())
	require.Equal(t, 8, addr.Prefix())
}

func TestDecodeAddrIPv6(t *testing.T) {
	loopback := append(make([]byte, 15), 1)

	addr, ok := decodeAddr(rtnl.AddrRecord{
		Family:    rtnl.FamilyV6,
		PrefixLen: 128,
		Data:      loopback,
	})

	require.True(t, ok)
	require.Equal(t, "::1/128", addr.String())
	require.True(t, addr.IsIPv6())
	require.False(t, addr.IsIPv4())
	require.Equal(t, 128, addr.Prefix())
}

func TestDecodeAddrPayloadOctets(t *testing.T) {
	addr, ok := decodeAddr(rtnl.AddrRecord{
		Family:    rtnl.FamilyV4,
		PrefixLen: 24,
		Data:      []byte{192, 168, 1, 7},
	})

	require.True(t, ok)
	require.Equal(t, "192.168.1.7/24", addr.String())
}

func TestDecodeAddrLengthMismatch(t *testing.T) {
	families := []uint8{rtnl.FamilyV4, rtnl.FamilyV6, 0, 3, 255}

	for _, family := range families {
		for _, size := range []int{0, 1, 3, 5, 8, 15, 17, 32} {
			rec := rtnl.AddrRecord{
				Family:    family,
				PrefixLen: 24,
				Data:      make([]byte, size),
			}

			_, ok := decodeAddr(rec)
			require.False(t, ok, fmt.Sprintf("family: %d, payload size: %d", family, size))
		}
	}
}

func TestDecodeAddrSwappedFamilies(t *testing.T) {
	_, ok := decodeAddr(rtnl.AddrRecord{Family: rtnl.FamilyV4, Data: make([]byte, 16)})
	require.False(t, ok)

	_, ok = decodeAddr(rtnl.AddrRecord{Family: rtnl.FamilyV6, Data: make([]byte, 4)})
	require.False(t, ok)
}

func TestDecodeAddrMissingPayload(t *testing.T) {
	_, ok := decodeAddr(rtnl.AddrRecord{Family: rtnl.FamilyV4, PrefixLen: 8})
	require.False(t, ok)

	_, ok = decodeAddr(rtnl.AddrRecord{Family: rtnl.FamilyV6, PrefixLen: 64})
	require.False(t, ok)
}

func TestDecodeAddrUnknownFamily(t *testing.T) {
	_, ok := decodeAddr(rtnl.AddrRecord{Family: 16, PrefixLen: 32, Data: make([]byte, 4)})
	require.False(t, ok)

	_, ok = decodeAddr(rtnl.AddrRecord{Family: 16, PrefixLen: 128, Data: make([]byte, 16)})
	require.False(t, ok)
}

func TestDecodeAddrPrefixPassthrough(t *testing.T) {
	addr, ok := decodeAddr(rtnl.AddrRecord{
		Family:    rtnl.FamilyV4,
		PrefixLen: 0,
		Data:      []byte{10, 0, 0, 1},
	})

	require.True(t, ok)
	require.Equal(t, 0, addr.Prefix())

	addr, ok = decodeAddr(rtnl.AddrRecord{
		Family:    rtnl.FamilyV4,
		PrefixLen: 32,
		Data:      []byte{10, 0, 0, 1},
	})

	require.True(t, ok)
	require.Equal(t, 32, addr.Prefix())
}

func TestDecodeAddrOutOfRangePrefix(t *testing.T) {
	// An out-of-range prefix yields an empty mask, never a panic.
	addr, ok := decodeAddr(rtnl.AddrRecord{
		Family:    rtnl.FamilyV4,
		PrefixLen: 200,
		Data:      []byte{10, 0, 0, 1},
	})

	require.True(t, ok)
	require.Nil(t, addr.Mask)
	require.Equal(t, "10.0.0.1", addr.IP.String())
}
