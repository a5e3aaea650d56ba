package effective

import "sort"

// dropdownKey identifies a dropdown definition across layers.
type dropdownKey struct {
	category string
	name     string
}

// layer is one ordered slice of entries contributed by a configuration level.
type layer[T any] struct {
	source  Source
	entries []T
}

// resolvedEntry pairs a winning value with the layer that supplied it.
type resolvedEntry[T any] struct {
	value  T
	source Source
}

// foldLayers folds ordered layers into a key-addressed map. Later layers win:
// an entry in a later layer replaces the earlier one under the same key
// wholesale, carrying its own source attribution.
func foldLayers[T any](layers []layer[T], keyOf func(T) dropdownKey) map[dropdownKey]resolvedEntry[T] {
	out := make(map[dropdownKey]resolvedEntry[T])
	for _, l := range layers {
		for _, entry := range l.entries {
			out[keyOf(entry)] = resolvedEntry[T]{value: entry, source: l.source}
		}
	}
	return out
}

func sortResolved(entries []ResolvedDropdown) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		if entries[i].SortOrder != entries[j].SortOrder {
			return entries[i].SortOrder < entries[j].SortOrder
		}
		return entries[i].Name < entries[j].Name
	})
}
