package pathstore

import (
	"fmt"

	"github.com/goliatone/go-pathstore/internal/hydrate"
	"github.com/goliatone/go-pathstore/treepath"
)

// Resolve reads the value at a dotted path and hydrates it into T through
// a JSON round-trip. It fails when the path does not resolve; use Path or
// PathOK for optional reads.
func Resolve[T any](s *Store, path string) (T, error) {
	var zero T
	if s == nil {
		return zero, fmt.Errorf("pathstore: store is required")
	}

	value, ok := treepath.Get(s.value, treepath.Split(path))
	if !ok {
		return zero, fmt.Errorf("pathstore: path %q not found", path)
	}

	decoder := hydrate.NewDecoder[T]()
	return decoder.Decode(hydrate.Context{Path: path}, value)
}
