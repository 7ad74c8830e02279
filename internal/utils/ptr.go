// Package utils holds small generic helpers for optional values.
package utils

func Ptr[T any](v T) *T {
	return &v
}

// Clone returns a new pointer to a copy of *v, or nil when v is nil.
func Clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
