package models

// Opt is a three-valued optional used by update operations: a field can
// be left unchanged (the zero Opt), explicitly cleared, or set to a
// value. Overloading a pointer's nil for both "leave alone" and "clear"
// loses that distinction, so it is kept explicit.
type Opt[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Opt carrying a value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Value: v}
}

// Null returns an Opt that clears the field.
func Null[T any]() Opt[T] {
	return Opt[T]{Set: true, Null: true}
}

// Unset returns an Opt that leaves the field unchanged.
func Unset[T any]() Opt[T] {
	return Opt[T]{}
}
