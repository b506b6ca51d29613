package array

import "iter"

// AppendFunc adds one foreign value to an array, or rejects it.
type AppendFunc[T, S any] func(a *Array[T], value S) error

// Extend feeds every value of seq to appendFn. It stops at the first
// rejected value and returns a *ConversionError; values appended before
// the failure stay in the array, nothing is rolled back.
func Extend[T, S any](a *Array[T], seq iter.Seq[S], appendFn AppendFunc[T, S]) error {
	index := 0
	for value := range seq {
		if err := appendFn(a, value); err != nil {
			return &ConversionError{Index: index, Err: err}
		}
		index++
	}
	return nil
}

// FromSeq builds a non-null array from seq. On a conversion failure it
// returns the partially filled array together with the error.
func FromSeq[T, S any](seq iter.Seq[S], appendFn AppendFunc[T, S]) (*Array[T], error) {
	a := Make[T](0)
	err := Extend(a, seq, appendFn)
	return a, err
}

// Converting turns a per-value conversion into an AppendFunc that pushes
// each converted value.
func Converting[T, S any](convert func(S) (T, error)) AppendFunc[T, S] {
	return func(a *Array[T], value S) error {
		v, err := convert(value)
		if err != nil {
			return err
		}
		a.PushBack(v)
		return nil
	}
}

// Identity is the AppendFunc for sequences that already hold T.
func Identity[T any](a *Array[T], value T) error {
	a.PushBack(value)
	return nil
}
