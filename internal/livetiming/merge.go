package livetiming

// DeepMerge overlays patch onto dst and returns the merged object. Values
// merge recursively only when both sides are JSON objects; every other
// combination (scalars, arrays, mismatched shapes) is replaced wholesale by
// the patch value. Arrays are never concatenated or merged element-wise.
//
// Patch values are deep-copied on the way in, so later mutation of the
// patch cannot alias accumulated state. A nil dst adopts a copy of patch.
func DeepMerge(dst, patch map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(patch))
	}
	for key, incoming := range patch {
		if existing, ok := dst[key].(map[string]any); ok {
			if obj, ok := incoming.(map[string]any); ok {
				dst[key] = DeepMerge(existing, obj)
				continue
			}
		}
		dst[key] = deepCopyValue(incoming)
	}
	return dst
}

// mergeValue applies the same contract as DeepMerge for a root value of any
// shape: object-into-object merges, everything else replaces.
func mergeValue(state, patch any) any {
	dst, dok := state.(map[string]any)
	src, sok := patch.(map[string]any)
	if dok && sok {
		return DeepMerge(dst, src)
	}
	return deepCopyValue(patch)
}

func deepCopyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, elem := range tv {
			out[k] = deepCopyValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, elem := range tv {
			out[i] = deepCopyValue(elem)
		}
		return out
	default:
		return v
	}
}
