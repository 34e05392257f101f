package user

// Sequence issues user ids.
//
// The first call to Next returns 1. Values strictly increase and are never
// handed out twice over the lifetime of the Sequence.
type Sequence struct {
	last int64
}

// NewSequence creates a sequence whose first issued id is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next id and advances the sequence.
func (s *Sequence) Next() int64 {
	s.last++
	return s.last
}

// Peek returns the id the next call to Next will return, without advancing.
func (s *Sequence) Peek() int64 {
	return s.last + 1
}
