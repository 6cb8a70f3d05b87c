package sample

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for requests that can not be sampled
// without replacement, e.g. more values than the population holds.
var ErrInvalidArgument = errors.New("invalid sample request")

// MaxPopulation is the largest supported population. Positions are scaled
// through float64, beyond 2^53 not every index is representable.
const MaxPopulation = 1 << 53

type SampleRequest struct {
	Population int64
	Size       int64
}

func (r SampleRequest) Validate() error {
	switch {
	case r.Population < 0:
		return fmt.Errorf("%w: negative population %d", ErrInvalidArgument, r.Population)

	case r.Population > MaxPopulation:
		return fmt.Errorf("%w: population %d exceeds maximum of %d",
			ErrInvalidArgument, r.Population, int64(MaxPopulation))

	case r.Size < 0:
		return fmt.Errorf("%w: negative sample size %d", ErrInvalidArgument, r.Size)

	case r.Size > r.Population:
		return fmt.Errorf("%w: sample size %d exceeds population %d",
			ErrInvalidArgument, r.Size, r.Population)

	default:
		return nil
	}
}
