package gfa

// Orientation is the strand of a segment reference: Forward for '+',
// Backward for '-'. The zero value is Forward.
type Orientation uint8

const (
	// Forward is the '+' strand.
	Forward Orientation = iota
	// Backward is the '-' strand.
	Backward
)

// ParseOrientation maps '+' and '-' to the corresponding Orientation.
// Any other byte yields an OrientationError.
func ParseOrientation(b byte) (Orientation, error) {
	switch b {
	case '+':
		return Forward, nil
	case '-':
		return Backward, nil
	}
	return Forward, &FieldError{Kind: KindOrientation}
}

// Byte returns '+' or '-'.
func (o Orientation) Byte() byte {
	if o == Backward {
		return '-'
	}
	return '+'
}

// IsReverse reports whether the orientation is Backward.
func (o Orientation) IsReverse() bool {
	return o == Backward
}

// Flip returns the opposite orientation.
func (o Orientation) Flip() Orientation {
	if o == Backward {
		return Forward
	}
	return Backward
}

func (o Orientation) String() string {
	return string(o.Byte())
}
