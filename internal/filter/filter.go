// Package filter implements stateful transforms over scalars, angles,
// vectors and booleans. Every filter consumes one value per call and tracks
// the time since its previous call, so results stay correct under a
// variable loop rate.
//
// Filters are single-owner and are not safe for concurrent use.
package filter

// Filter transforms a value given the state left by previous calls.
type Filter[T any] interface {
	Get(next T) T
}

// Func adapts a stateless function to a Filter.
type Func[T any] func(next T) T

func (f Func[T]) Get(next T) T { return f(next) }

// Identity returns its input unchanged.
func Identity[T any]() Filter[T] {
	return Func[T](func(next T) T { return next })
}

// Group applies each filter in order.
type Group[T any] []Filter[T]

func (g Group[T]) Get(next T) T {
	for _, f := range g {
		next = f.Get(next)
	}
	return next
}

// Chain composes filters left to right, skipping nil entries. Short chains
// are fused into a single closure; longer ones fall back to a Group.
func Chain[T any](filters ...Filter[T]) Filter[T] {
	fs := make([]Filter[T], 0, len(filters))
	for _, f := range filters {
		if f != nil {
			fs = append(fs, f)
		}
	}

	switch len(fs) {
	case 0:
		return Identity[T]()
	case 1:
		return fs[0]
	case 2:
		a, b := fs[0], fs[1]
		return Func[T](func(x T) T {
			return b.Get(a.Get(x))
		})
	case 3:
		a, b, c := fs[0], fs[1], fs[2]
		return Func[T](func(x T) T {
			return c.Get(b.Get(a.Get(x)))
		})
	case 4:
		a, b, c, d := fs[0], fs[1], fs[2], fs[3]
		return Func[T](func(x T) T {
			return d.Get(c.Get(b.Get(a.Get(x))))
		})
	default:
		return Group[T](fs)
	}
}

// Then runs a and feeds its output to b.
func Then[T any](a, b Filter[T]) Filter[T] {
	return Chain(a, b)
}

// Sum feeds the same input to a and b and combines the outputs with add.
func Sum[T any](a, b Filter[T], add func(x, y T) T) Filter[T] {
	return Func[T](func(x T) T {
		return add(a.Get(x), b.Get(x))
	})
}

// Difference feeds the same input to a and b and returns a(x) - b(x).
func Difference[T any](a, b Filter[T], sub func(x, y T) T) Filter[T] {
	return Func[T](func(x T) T {
		return sub(a.Get(x), b.Get(x))
	})
}

// Invert returns x - f(x). A low-pass filter inverted this way is a
// high-pass filter.
func Invert[T any](f Filter[T], sub func(x, y T) T) Filter[T] {
	return Func[T](func(x T) T {
		return sub(x, f.Get(x))
	})
}
