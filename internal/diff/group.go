package diff

import "iter"

// Group packs items left to right into groups whose combined size stays within
// maxSize. An item larger than maxSize on its own becomes a singleton group.
// Items are never reordered or split.
func Group[T any](items iter.Seq[T], maxSize int, sizeOf func(T) int) [][]T {
	var (
		groups  [][]T
		current []T
		size    int
	)
	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = nil
		size = 0
	}

	for item := range items {
		n := sizeOf(item)
		switch {
		case n > maxSize:
			flush()
			groups = append(groups, []T{item})
		case size+n > maxSize:
			flush()
			current = append(current, item)
			size = n
		default:
			current = append(current, item)
			size += n
		}
	}
	flush()

	return groups
}
