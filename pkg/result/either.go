package result

// Either is a tagged union of a Left (failure payload) or a Right (success
// payload). Callers check IsLeft/IsRight before unwrapping.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

func Left[L, R any](l L) Either[L, R]  { return Either[L, R]{left: l} }
func Right[L, R any](r R) Either[L, R] { return Either[L, R]{right: r, isRight: true} }

func (e Either[L, R]) IsLeft() bool  { return !e.isRight }
func (e Either[L, R]) IsRight() bool { return e.isRight }

// LeftValue panics when e is a Right.
func (e Either[L, R]) LeftValue() L {
	if e.isRight {
		panic("result: LeftValue called on a Right")
	}
	return e.left
}

// RightValue panics when e is a Left.
func (e Either[L, R]) RightValue() R {
	if !e.isRight {
		panic("result: RightValue called on a Left")
	}
	return e.right
}
