package profile

import (
	"context"
	"fmt"
)

// ResolveChain expands a chain into its transport members in order.
// Nested chains are flattened. Unlike display resolution, a missing
// member is an error here.
func ResolveChain(ctx context.Context, lookup Lookup, p *Profile) ([]*Profile, error) {
	var out []*Profile
	if err := resolveInto(ctx, lookup, p, make(map[int64]struct{}), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func resolveInto(ctx context.Context, lookup Lookup, p *Profile, visited map[int64]struct{}, out *[]*Profile) error {
	chain, err := p.RequireChain()
	if err != nil {
		return err
	}
	if p.ID != 0 {
		visited[p.ID] = struct{}{}
		defer delete(visited, p.ID)
	}

	for _, id := range chain.Proxies {
		if _, seen := visited[id]; seen {
			return fmt.Errorf("%w: profile %d reached again from chain %d", ErrCyclicReference, id, p.ID)
		}
		member, err := lookup.GetProfile(ctx, id)
		if err != nil {
			return fmt.Errorf("chain %d member %d: %w", p.ID, id, err)
		}
		if member == nil {
			return fmt.Errorf("chain %d member %d: %w", p.ID, id, ErrNotFound)
		}
		if member.Type() == KindChain {
			if err := resolveInto(ctx, lookup, member, visited, out); err != nil {
				return err
			}
			continue
		}
		if _, err := member.Bean(); err != nil {
			return err
		}
		*out = append(*out, member)
	}
	return nil
}
