package sample

// shuffleOne moves a uniformly chosen value of values[i:] to position i.
func shuffleOne(src Source, values []int64, i int) {
	r := i + int(src.Float64()*float64(len(values)-i))
	if r >= len(values) {
		// rounding of the float product for very long slices.
		r = len(values) - 1
	}

	values[r], values[i] = values[i], values[r]
}

type shuffleIter struct {
	src    Source
	pos    int
	values []int64
}

// NewShuffledIterator drains iter and yields its values in uniformly random
// order. Unlike the rest of this package it needs memory for all values.
func NewShuffledIterator(iter ItemIterator, src Source) ItemIterator {
	values := IteratorToList(nil, iter)

	result := &shuffleIter{
		src:    src,
		values: values,
	}

	result.advance()
	return result
}

func (it *shuffleIter) advance() {
	if it.pos < len(it.values) {
		shuffleOne(it.src, it.values, it.pos)
	}
}

func (it *shuffleIter) HasMore() bool {
	return it.pos < len(it.values)
}

func (it *shuffleIter) Peek() int64 {
	return it.values[it.pos]
}

func (it *shuffleIter) Next() int64 {
	current := it.values[it.pos]

	it.pos += 1
	it.advance()

	return current
}

func (it *shuffleIter) MaxSize() int {
	return len(it.values) - it.pos
}
