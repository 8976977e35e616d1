package main

// Direction is a step along an ordered list: towards its tail or
// towards its head.
type Direction int

const (
	Backward = Direction(-1)
	Forward  = Direction(+1)
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}
