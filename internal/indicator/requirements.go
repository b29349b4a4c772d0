package indicator

import "github.com/stratlab-io/stratsim/internal/types"

// Requirements walks the given condition trees once and returns the
// deduplicated set of computed indicator columns they reference, so the
// pipeline computes each distinct (kind, period) exactly once. Static kinds
// read directly off the candles and are excluded.
func Requirements(groups ...*types.Group) []types.IndicatorRef {
	seen := make(map[string]struct{})

	var refs []types.IndicatorRef

	var addRef func(ref types.IndicatorRef)
	addRef = func(ref types.IndicatorRef) {
		if !ref.Kind.Computed() {
			return
		}

		key := ref.Key()
		if _, ok := seen[key]; ok {
			return
		}

		seen[key] = struct{}{}

		refs = append(refs, ref)
	}

	var walk func(node types.Node)
	walk = func(node types.Node) {
		switch n := node.(type) {
		case *types.Condition:
			addRef(n.Left)

			if n.Right != nil {
				addRef(*n.Right)
			}
		case *types.Group:
			for _, child := range n.Children {
				walk(child)
			}
		}
	}

	for _, group := range groups {
		if group == nil {
			continue
		}

		walk(group)
	}

	return refs
}
