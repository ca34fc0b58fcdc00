// FILE: lixenwraith/config/merge.go
package config

import (
	"fmt"
	"maps"
	"slices"
)

// mergeValues returns override layered onto base.
// Two mappings merge key by key, recursively. In every other case, sequences
// included, override replaces base wholesale. base is never modified; subtrees
// that are not touched by override are shared with the result.
func mergeValues(base, override any) any {
	baseMap, ok := base.(*Map)
	if !ok {
		return override
	}
	overMap, ok := override.(*Map)
	if !ok {
		return override
	}

	result := &Map{keys: slices.Clone(baseMap.keys), values: maps.Clone(baseMap.values)}
	if result.values == nil {
		result.values = make(map[string]any, overMap.Len())
	}
	for k, ov := range overMap.All() {
		if bv, exists := baseMap.values[k]; exists {
			result.put(k, mergeValues(bv, ov))
		} else {
			result.put(k, ov)
		}
	}
	return result
}

// setPath assigns value at path inside root, mutating the containers in place.
// Missing mapping keys on the way are created as empty mappings; sequences are
// never grown. The path is validated before anything is modified, so a failed
// call leaves root untouched.
func setPath(root any, path Path, key string, value any) error {
	if len(path) == 0 {
		return &PathError{Key: key, Reason: "key is empty", Err: ErrEmptyPath}
	}
	if err := walkPath(root, path, key, nil, false); err != nil {
		return err
	}
	return walkPath(root, path, key, value, true)
}

// walkPath navigates path from root. With apply unset it only validates.
func walkPath(root any, path Path, key string, value any, apply bool) error {
	current := root
	last := len(path) - 1

	for i, seg := range path {
		switch c := current.(type) {
		case *Map:
			if err := checkMapSegment(c, seg, key); err != nil {
				return err
			}
			if i == last {
				if apply {
					c.put(seg.Name, value)
				}
				return nil
			}

			child, exists := c.Get(seg.Name)
			if !exists {
				if !apply {
					// Everything below is created fresh, only names can address it
					return checkFreshSegments(path[i+1:], key)
				}
				child = NewMap()
				c.put(seg.Name, child)
			} else if kindOf(child) == KindScalar {
				return &PathError{
					Key:     key,
					Segment: seg.Name,
					Reason:  fmt.Sprintf("existing %T value would be shadowed by a longer key", child),
				}
			}
			current = child

		case []any:
			idx, err := sequenceIndex(c, seg, key)
			if err != nil {
				return err
			}
			if i == last {
				if apply {
					c[idx] = value
				}
				return nil
			}

			child := c[idx]
			if kindOf(child) == KindScalar {
				return &PathError{
					Key:     key,
					Segment: seg.Name,
					Reason:  fmt.Sprintf("sequence element is a %T, not a container", child),
				}
			}
			current = child

		default:
			return &PathError{
				Key:     key,
				Segment: seg.Name,
				Reason:  fmt.Sprintf("cannot navigate into %T value", current),
			}
		}
	}
	return nil
}

// checkMapSegment rejects index segments against a mapping, even when the
// mapping holds a key spelled like the index. Reads through Lookup still
// resolve such keys literally.
func checkMapSegment(m *Map, seg Segment, key string) error {
	if seg.IsIndex {
		kind := "missing"
		if m.Has(seg.Name) {
			kind = "existing"
		}
		return &PathError{
			Key:     key,
			Segment: seg.Name,
			Reason:  fmt.Sprintf("numeric index used against a mapping (%s key)", kind),
		}
	}
	return nil
}

// checkFreshSegments validates segments that will land in newly created mappings.
func checkFreshSegments(rest Path, key string) error {
	for _, seg := range rest {
		if seg.IsIndex {
			return &PathError{Key: key, Segment: seg.Name, Reason: "numeric index used against a new mapping"}
		}
	}
	return nil
}

// sequenceIndex resolves seg against seq without growing it.
func sequenceIndex(seq []any, seg Segment, key string) (int, error) {
	if !seg.IsIndex {
		return 0, &PathError{Key: key, Segment: seg.Name, Reason: "expected a numeric index for a sequence"}
	}
	if seg.Index >= len(seq) {
		return 0, &PathError{
			Key:     key,
			Segment: seg.Name,
			Reason:  fmt.Sprintf("index out of range for sequence of length %d", len(seq)),
		}
	}
	return seg.Index, nil
}
