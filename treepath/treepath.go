// Package treepath implements copy-on-write editing of dynamic nested
// values built from map[string]any and []any. Every write returns a new
// root and new nodes along the written path while untouched sibling
// subtrees keep their original references, so callers can use reference
// inequality as a change signal.
package treepath

import (
	"sort"
	"strconv"
	"strings"
)

// Separator joins and splits dotted path strings.
const Separator = "."

// Split breaks a dotted path string into segments. An empty string yields
// a nil slice, which addresses the root.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Join assembles segments back into a dotted path string.
func Join(segments []string) string {
	return strings.Join(segments, Separator)
}

// HasPrefix reports whether path begins with prefix, comparing whole
// segments. Unlike a raw string prefix test, "todos.1" is not a prefix of
// "todos.10".
func HasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i, segment := range prefix {
		if path[i] != segment {
			return false
		}
	}
	return true
}

// Equal reports whether two paths address the same location.
func Equal(a, b []string) bool {
	return len(a) == len(b) && HasPrefix(a, b)
}

// Get walks root one segment at a time and returns the value addressed by
// path. Absent intermediate structure is not an error: the walk stops and
// reports ok=false as soon as a segment cannot be resolved.
func Get(root any, path []string) (any, bool) {
	current := root
	for _, segment := range path {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			index, ok := sliceIndex(segment, len(node))
			if !ok {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value at path and returns the new root. The original root is
// never mutated: each node from the root to the write point is shallow
// cloned, preserving array-vs-object shape, and missing or non-container
// intermediates are replaced with containers synthesized from the next
// segment. An empty path returns root unchanged.
func Set(root any, path []string, value any) any {
	if len(path) == 0 {
		return root
	}
	return setSegment(root, path, value)
}

func setSegment(node any, path []string, value any) any {
	segment := path[0]

	if slice, ok := node.([]any); ok {
		if index, err := strconv.Atoi(segment); err == nil && index >= 0 {
			clone := cloneSlice(slice, index+1)
			if len(path) == 1 {
				clone[index] = value
			} else {
				clone[index] = setSegment(childContainer(clone[index], path[1]), path[1:], value)
			}
			return clone
		}
	}

	clone := cloneMap(node)
	if len(path) == 1 {
		clone[segment] = value
		return clone
	}
	clone[segment] = setSegment(childContainer(clone[segment], path[1]), path[1:], value)
	return clone
}

// Delete removes the value at path and returns the new root together with
// a flag reporting whether anything changed. When the path does not
// resolve, the original root is returned untouched so callers can skip
// change propagation. With pruneEmpty set, ancestors left empty by the
// removal are deleted as well.
func Delete(root any, path []string, pruneEmpty bool) (any, bool) {
	if len(path) == 0 {
		return root, false
	}
	return deleteSegment(root, path, pruneEmpty)
}

func deleteSegment(node any, path []string, pruneEmpty bool) (any, bool) {
	segment := path[0]

	switch container := node.(type) {
	case map[string]any:
		child, ok := container[segment]
		if !ok {
			return node, false
		}
		if len(path) == 1 {
			clone := cloneMap(container)
			delete(clone, segment)
			return clone, true
		}
		next, changed := deleteSegment(child, path[1:], pruneEmpty)
		if !changed {
			return node, false
		}
		clone := cloneMap(container)
		if pruneEmpty && emptyContainer(next) {
			delete(clone, segment)
		} else {
			clone[segment] = next
		}
		return clone, true
	case []any:
		index, ok := sliceIndex(segment, len(container))
		if !ok {
			return node, false
		}
		if len(path) == 1 {
			clone := make([]any, 0, len(container)-1)
			clone = append(clone, container[:index]...)
			clone = append(clone, container[index+1:]...)
			return clone, true
		}
		next, changed := deleteSegment(container[index], path[1:], pruneEmpty)
		if !changed {
			return node, false
		}
		if pruneEmpty && emptyContainer(next) {
			clone := make([]any, 0, len(container)-1)
			clone = append(clone, container[:index]...)
			clone = append(clone, container[index+1:]...)
			return clone, true
		}
		clone := cloneSlice(container, len(container))
		clone[index] = next
		return clone, true
	default:
		return node, false
	}
}

// Clone deep-copies a dynamic value. Primitives are returned as-is.
func Clone(value any) any {
	switch node := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(node))
		for key, child := range node {
			clone[key] = Clone(child)
		}
		return clone
	case []any:
		clone := make([]any, len(node))
		for i, child := range node {
			clone[i] = Clone(child)
		}
		return clone
	default:
		return value
	}
}

// TopLevel returns one single-segment path per top-level key of value.
// Map keys are sorted for deterministic dispatch order; slice elements
// yield their indices. Primitives have no top-level keys.
func TopLevel(value any) [][]string {
	switch node := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for key := range node {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		paths := make([][]string, len(keys))
		for i, key := range keys {
			paths[i] = []string{key}
		}
		return paths
	case []any:
		paths := make([][]string, len(node))
		for i := range node {
			paths[i] = []string{strconv.Itoa(i)}
		}
		return paths
	default:
		return nil
	}
}

// childContainer returns child when it is already a container, otherwise a
// fresh container shaped by the segment that will be written into it: a
// slice when the segment is a non-negative integer, a map otherwise.
func childContainer(child any, nextSegment string) any {
	switch child.(type) {
	case map[string]any, []any:
		return child
	}
	if index, err := strconv.Atoi(nextSegment); err == nil && index >= 0 {
		return make([]any, 0)
	}
	return map[string]any{}
}

func cloneMap(node any) map[string]any {
	original, ok := node.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	clone := make(map[string]any, len(original))
	for key, value := range original {
		clone[key] = value
	}
	return clone
}

// cloneSlice shallow-copies a slice, growing it to at least size so an
// index one past the end can be written.
func cloneSlice(original []any, size int) []any {
	if size < len(original) {
		size = len(original)
	}
	clone := make([]any, size)
	copy(clone, original)
	return clone
}

func sliceIndex(segment string, limit int) (int, bool) {
	index, err := strconv.Atoi(segment)
	if err != nil || index < 0 || index >= limit {
		return 0, false
	}
	return index, true
}

func emptyContainer(value any) bool {
	switch node := value.(type) {
	case map[string]any:
		return len(node) == 0
	case []any:
		return len(node) == 0
	default:
		return false
	}
}
