// Package lockx provides per-key mutual exclusion used by the broker's strict
// consistency mode. The default Noop locker keeps the relaxed, race-prone
// read-then-write behaviour of the services.
package lockx

import (
	"context"
	"sort"
)

// Unlock releases a lock obtained from a Locker. It is safe to call once.
type Unlock func()

// Locker serializes callers that share a key.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// LockAll acquires every distinct key in sorted order so two callers asking
// for the same set can never deadlock. On failure the keys already held are
// released.
func LockAll(ctx context.Context, l Locker, keys ...string) (Unlock, error) {
	uniq := make(map[string]struct{}, len(keys))
	sorted := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := uniq[k]; ok {
			continue
		}
		uniq[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	held := make([]Unlock, 0, len(sorted))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}

	for _, k := range sorted {
		unlock, err := l.Lock(ctx, k)
		if err != nil {
			release()
			return nil, err
		}
		held = append(held, unlock)
	}

	return release, nil
}

// Noop never blocks.
type Noop struct{}

func (Noop) Lock(context.Context, string) (Unlock, error) {
	return func() {}, nil
}
