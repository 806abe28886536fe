package market

// Direction is the side of a breakout or position.
type Direction int

const (
	Long Direction = iota + 1
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "UNKNOWN"
	}
}

// Sign returns +1 for Long, -1 for Short.
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}
