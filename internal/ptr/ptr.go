package ptr

// Ref returns a pointer to the value passed as argument. Handy for the
// optional pointer fields on the program aggregate.
func Ref[T any](v T) *T {
	return &v
}
