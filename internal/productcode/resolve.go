package productcode

import (
	"context"
	"strconv"
)

// ExistsFunc reports whether a product code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Resolve returns base if it is free, otherwise the first of base-1, base-2,
// ... that exists reports as free. There is no upper bound on the suffix.
//
// Errors from exists are returned as-is. Resolve holds no lock: a code it
// returns can still be taken by a concurrent insert, so the store must
// enforce uniqueness on its own.
func Resolve(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for counter := 0; ; {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		counter++
		candidate = base + "-" + strconv.Itoa(counter)
	}
}
