package profile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLookup map[int64]*Profile

func (m mapLookup) GetProfile(_ context.Context, id int64) (*Profile, error) {
	p, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	return p, nil
}

type failingLookup struct{ err error }

func (f failingLookup) GetProfile(context.Context, int64) (*Profile, error) {
	return nil, f.err
}

func withID(id int64, b Bean) *Profile {
	p := New(1, b)
	p.ID = id
	return p
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "[::1]:443", FormatAddress("::1", 443))
	assert.Equal(t, "example.com:443", FormatAddress("example.com", 443))
	assert.Equal(t, "1.2.3.4:80", FormatAddress("1.2.3.4", 80))
	assert.Equal(t, "[2001:db8::1]:8443", FormatAddress("2001:db8::1", 8443))
	assert.Equal(t, ":0", FormatAddress("", 0))
}

func TestDisplayAddressPlain(t *testing.T) {
	p := New(1, &TrojanBean{ServerBean: ServerBean{ServerAddress: "::1", ServerPort: 443}})
	got, err := p.DisplayAddress(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "[::1]:443", got)
}

func TestDisplayAddressChainUsesFirstMember(t *testing.T) {
	lookup := mapLookup{
		1: withID(1, &SOCKSBean{ServerBean: ServerBean{ServerAddress: "first.example.com", ServerPort: 1080}}),
		2: withID(2, &SOCKSBean{ServerBean: ServerBean{ServerAddress: "second.example.com", ServerPort: 1080}}),
	}
	chain := withID(10, &ChainBean{Proxies: []int64{1, 2}})

	got, err := chain.DisplayAddress(context.Background(), lookup)
	require.NoError(t, err)
	assert.Equal(t, "first.example.com:1080", got)
}

func TestDisplayAddressNestedChain(t *testing.T) {
	lookup := mapLookup{
		1:  withID(1, &VMessBean{StandardV2RayBean: StandardV2RayBean{ServerBean: ServerBean{ServerAddress: "2001:db8::2", ServerPort: 8443}}}),
		11: withID(11, &ChainBean{Proxies: []int64{1}}),
	}
	chain := withID(10, &ChainBean{Proxies: []int64{11}})

	got, err := chain.DisplayAddress(context.Background(), lookup)
	require.NoError(t, err)
	assert.Equal(t, "[2001:db8::2]:8443", got)
}

func TestDisplayAddressChainFallback(t *testing.T) {
	chain := withID(10, &ChainBean{Proxies: []int64{404}})

	got, err := chain.DisplayAddress(context.Background(), mapLookup{})
	require.NoError(t, err)
	assert.Equal(t, ":0", got)

	empty := withID(11, &ChainBean{})
	got, err = empty.DisplayAddress(context.Background(), mapLookup{})
	require.NoError(t, err)
	assert.Equal(t, ":0", got)
}

func TestDisplayAddressLookupFailurePropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	chain := withID(10, &ChainBean{Proxies: []int64{1}})

	_, err := chain.DisplayAddress(context.Background(), failingLookup{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestDisplayAddressCycle(t *testing.T) {
	lookup := mapLookup{}
	lookup[1] = withID(1, &ChainBean{Proxies: []int64{2}})
	lookup[2] = withID(2, &ChainBean{Proxies: []int64{1}})

	_, err := lookup[1].DisplayAddress(context.Background(), lookup)
	assert.ErrorIs(t, err, ErrCyclicReference)

	self := withID(3, &ChainBean{Proxies: []int64{3}})
	lookup[3] = self
	_, err = self.DisplayAddress(context.Background(), lookup)
	assert.ErrorIs(t, err, ErrCyclicReference)
}

func TestResolveChain(t *testing.T) {
	lookup := mapLookup{
		1:  withID(1, &SOCKSBean{}),
		2:  withID(2, &TrojanBean{}),
		3:  withID(3, &VLESSBean{}),
		20: withID(20, &ChainBean{Proxies: []int64{2, 3}}),
	}
	chain := withID(10, &ChainBean{Proxies: []int64{1, 20}})

	members, err := ResolveChain(context.Background(), lookup, chain)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{members[0].ID, members[1].ID, members[2].ID})
}

func TestResolveChainErrors(t *testing.T) {
	lookup := mapLookup{1: withID(1, &SOCKSBean{})}

	_, err := ResolveChain(context.Background(), lookup, withID(10, &ChainBean{Proxies: []int64{1, 404}}))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ResolveChain(context.Background(), lookup, withID(1, &SOCKSBean{}))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	lookup[5] = withID(5, &ChainBean{Proxies: []int64{1, 5}})
	_, err = ResolveChain(context.Background(), lookup, lookup[5])
	assert.ErrorIs(t, err, ErrCyclicReference)
}

func TestResolveChainSharedMemberIsNotACycle(t *testing.T) {
	lookup := mapLookup{
		1: withID(1, &SOCKSBean{}),
		2: withID(2, &ChainBean{Proxies: []int64{1}}),
	}
	members, err := ResolveChain(context.Background(), lookup, withID(10, &ChainBean{Proxies: []int64{2, 2}}))
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
