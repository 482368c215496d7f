package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps page to at least 1 and size to (0, MaxPageSize].
func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}

// Window returns the [from, to) bounds of page within n elements.
func Window(n, page, size int) (from, to int) {
	page, size = Normalize(page, size)
	from = (page - 1) * size
	if from > n {
		from = n
	}
	to = from + size
	if to > n {
		to = n
	}
	return from, to
}
