package array

import (
	"fmt"

	"github.com/ssungk/sharedarray/pkg/codec"
)

// Reduce returns the constructor arguments that rebuild the array: none
// for a null array, one empty sequence for an empty array, and the raw
// bytes otherwise.
func (h *handle[T]) Reduce() []any {
	switch {
	case h.mem == nil:
		return []any{}
	case h.Len() == 0:
		return []any{[]any{}}
	default:
		return []any{h.Bytes()}
	}
}

// Rebuild is the inverse of Reduce.
func Rebuild[T any](args []any) (*Array[T], error) {
	switch len(args) {
	case 0:
		return New[T](), nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d arguments", ErrInvalidReduction, len(args))
	}

	switch arg := args[0].(type) {
	case []byte:
		if len(arg) == 0 {
			return Make[T](0), nil
		}
		return FromBytes[T](arg, 1)
	case []any:
		if len(arg) != 0 {
			return nil, fmt.Errorf("%w: non-empty element sequence", ErrInvalidReduction)
		}
		return Make[T](0), nil
	default:
		return nil, fmt.Errorf("%w: argument of type %T", ErrInvalidReduction, arg)
	}
}

// MarshalCBOR encodes the constructor arguments of a.
func (a *Array[T]) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(a.Reduce())
}

// UnmarshalCBOR replaces a with the array the encoded arguments describe.
func (a *Array[T]) UnmarshalCBOR(data []byte) error {
	rebuilt, err := unmarshalArgs[T](data)
	if err != nil {
		return err
	}
	a.Release()
	a.mem = rebuilt.mem
	return nil
}

// MarshalCBOR encodes the constructor arguments of c.
func (c *ConstArray[T]) MarshalCBOR() ([]byte, error) {
	return codec.Marshal(c.Reduce())
}

// UnmarshalCBOR replaces c with the array the encoded arguments describe.
func (c *ConstArray[T]) UnmarshalCBOR(data []byte) error {
	rebuilt, err := unmarshalArgs[T](data)
	if err != nil {
		return err
	}
	c.Release()
	c.mem = rebuilt.mem
	return nil
}

func unmarshalArgs[T any](data []byte) (*Array[T], error) {
	var args []any
	if err := codec.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReduction, err)
	}
	return Rebuild[T](args)
}
