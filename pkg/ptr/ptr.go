package ptr

// New creates and returns a pointer to the provided value.
func New[T any](v T) *T { return &v }
