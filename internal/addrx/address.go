// Package addrx parses and formats account addresses: 20-byte identities
// written as 0x-prefixed hex, with optional EIP-55 mixed-case checksums.
package addrx

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hypesale/internal/common"
	"golang.org/x/crypto/sha3"
)

// Address is the canonical lowercase form, e.g. "0x5aaeb605...".
type Address string

// Zero is the null identity.
const Zero Address = "0x0000000000000000000000000000000000000000"

const hexLen = 40

// Parse validates s and returns its canonical form. All-lowercase and
// all-uppercase input is accepted as is; mixed case must carry a valid
// EIP-55 checksum.
func Parse(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if len(s) != hexLen+2 || !strings.HasPrefix(s, "0x") {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidAddress, s)
	}

	body := s[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidAddress, s)
	}

	lower := strings.ToLower(body)
	if body != lower && body != strings.ToUpper(body) && checksum(lower) != body {
		return "", fmt.Errorf("%w: bad checksum %q", common.ErrInvalidAddress, s)
	}

	return Address("0x" + lower), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether a is empty or the zero address.
func (a Address) IsZero() bool {
	return a == "" || a == Zero
}

func (a Address) String() string {
	return string(a)
}

// Checksum renders a in EIP-55 mixed case.
func (a Address) Checksum() string {
	if len(a) != hexLen+2 {
		return string(a)
	}
	return "0x" + checksum(strings.ToLower(string(a[2:])))
}

func checksum(lower string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	sum := h.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}
