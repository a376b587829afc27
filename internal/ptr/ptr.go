package ptr

// V returns a pointer to v.
func V[T any](v T) *T {
	return &v
}
