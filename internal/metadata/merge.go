package metadata

// Merge merges parent into child (dst) in place: keys present only in
// parent are copied over; keys present in both are merged recursively if
// both values are objects; if both are lists the result is parent's list
// followed by child's (child extends parent); otherwise child's existing
// value is kept (child wins on scalar conflicts).
//
// dst and parent are the generic map[string]any trees produced by decoding
// version metadata JSON without a fixed schema, which is how inheritsFrom
// resolution operates before the typed VersionMetadata view is built.
func Merge(dst, parent map[string]any) {
	for k, v := range parent {
		existing, present := dst[k]
		if !present {
			dst[k] = v
			continue
		}
		dstMap, dstIsMap := existing.(map[string]any)
		parentMap, parentIsMap := v.(map[string]any)
		if dstIsMap && parentIsMap {
			Merge(dstMap, parentMap)
			continue
		}
		dstList, dstIsList := existing.([]any)
		parentList, parentIsList := v.([]any)
		if dstIsList && parentIsList {
			dst[k] = append(append([]any{}, parentList...), dstList...)
			continue
		}
		// both present, not mergeable shapes: child (dst) wins, do nothing.
	}
}
