package metadata

// ApplyDefaults fills empty slots of target from the declared defaults,
// recursing into OBJECT children. OBJECT slots holding anything other than a
// map are replaced by an empty map first so nested defaults always land.
// Present values are never overwritten, which makes the pass idempotent.
// A nil target is left untouched.
func ApplyDefaults(props []SpecProperty, target ValueTree) {
	if target == nil {
		return
	}
	for _, prop := range props {
		if isEmpty(target[prop.Name]) && prop.HasDefault() {
			target[prop.Name] = Clone(prop.DefaultValue)
		}

		if !prop.HasChildren() {
			continue
		}
		child, ok := asTree(target[prop.Name])
		if !ok {
			child = ValueTree{}
			target[prop.Name] = child
		}
		ApplyDefaults(prop.Properties, child)
	}
}

// WithDefaults returns a defaulted copy of tree. The input is not modified and
// the result shares no maps or slices with it or with the spec.
func WithDefaults(props []SpecProperty, tree ValueTree) ValueTree {
	out := CloneTree(tree)
	ApplyDefaults(props, out)
	return out
}

// Reselect computes the value tree after the active spec changes from prev to
// next. Re-selecting the same spec merges defaults into the current values;
// switching to a different spec starts from an empty tree. A nil next keeps the
// values as free-form metadata.
func Reselect(prev, next *MetadataSpec, tree ValueTree) ValueTree {
	if next == nil {
		return CloneTree(tree)
	}
	if prev != nil && prev.ID != next.ID {
		return WithDefaults(next.Properties, nil)
	}
	return WithDefaults(next.Properties, tree)
}
