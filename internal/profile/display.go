package profile

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strconv"

	"proxyprofile/internal/logger"
)

// Lookup fetches a single profile by id. Implementations return an error
// wrapping ErrNotFound when the id does not exist.
type Lookup interface {
	GetProfile(ctx context.Context, id int64) (*Profile, error)
}

// FormatAddress renders host:port, bracketing IPv6 literals.
func FormatAddress(host string, port int) string {
	if addr, err := netip.ParseAddr(host); err == nil && addr.Is6() {
		return "[" + host + "]:" + strconv.Itoa(port)
	}
	return host + ":" + strconv.Itoa(port)
}

// DisplayAddress formats the server endpoint. A chain shows its first
// member's address; if that member no longer exists the chain's own
// (empty) address is shown instead.
func (p *Profile) DisplayAddress(ctx context.Context, lookup Lookup) (string, error) {
	return p.displayAddress(ctx, lookup, make(map[int64]struct{}))
}

func (p *Profile) displayAddress(ctx context.Context, lookup Lookup, visited map[int64]struct{}) (string, error) {
	b, err := p.Bean()
	if err != nil {
		return "", err
	}

	chain, ok := b.(*ChainBean)
	if !ok || len(chain.Proxies) == 0 || lookup == nil {
		return FormatAddress(b.Address(), b.Port()), nil
	}

	if p.ID != 0 {
		visited[p.ID] = struct{}{}
	}
	first := chain.Proxies[0]
	if _, seen := visited[first]; seen {
		return "", fmt.Errorf("%w: profile %d reached again from chain %d", ErrCyclicReference, first, p.ID)
	}

	member, err := lookup.GetProfile(ctx, first)
	switch {
	case err == nil && member != nil:
		return member.displayAddress(ctx, lookup, visited)
	case err == nil, errors.Is(err, ErrNotFound):
		logger.Log.Debugf("Chain %d: first member %d is missing", p.ID, first)
		return FormatAddress(b.Address(), b.Port()), nil
	default:
		return "", err
	}
}
