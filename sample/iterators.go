package sample

import (
	"errors"

	"github.com/cznic/mathutil"
)

// ItemIterator walks a sequence of values. Iterators produced by this
// package yield their values in strictly increasing order unless stated
// otherwise.
type ItemIterator interface {
	HasMore() bool
	Next() int64
	Peek() int64
	MaxSize() int
}

type FastItemIterator interface {
	ItemIterator
	SkipUntil(val int64)
}

func IteratorSkipUntil(iter ItemIterator, val int64) {
	if fast, ok := iter.(FastItemIterator); ok {
		fast.SkipUntil(val)
	} else {
		for iter.HasMore() && iter.Peek() < val {
			iter.Next()
		}
	}
}

func IteratorToList(result []int64, iter ItemIterator) []int64 {
	if result == nil {
		if maxSize := iter.MaxSize(); maxSize > 0 {
			result = make([]int64, 0, maxSize)
		}
	}

	for iter.HasMore() {
		result = append(result, iter.Next())
	}

	return result
}

type emptyIterator struct{}

var emptyIteratorInstance emptyIterator

func NewEmptyIterator() ItemIterator {
	return &emptyIteratorInstance
}

func (it *emptyIterator) HasMore() bool {
	return false
}

func (it *emptyIterator) Peek() int64 {
	panic(errors.New("Peek() called on empty iterator."))
}

func (it *emptyIterator) Next() int64 {
	panic(errors.New("Next() called on empty iterator."))
}

func (it *emptyIterator) MaxSize() int {
	return 0
}

type limitIterator struct {
	totalCount int
	remaining  int
	iter       ItemIterator
}

// NewLimitIterator yields at most limit values of iter. Values behind the
// limit are never pulled from iter.
func NewLimitIterator(limit int, iter ItemIterator) ItemIterator {
	if limit <= 0 {
		return NewEmptyIterator()
	}

	return &limitIterator{totalCount: limit, remaining: limit, iter: iter}
}

func (it *limitIterator) HasMore() bool {
	return it.remaining > 0 && it.iter.HasMore()
}

func (it *limitIterator) Peek() int64 {
	return it.iter.Peek()
}

func (it *limitIterator) Next() int64 {
	it.remaining -= 1
	return it.iter.Next()
}

func (it *limitIterator) MaxSize() int {
	return mathutil.Min(it.remaining, it.iter.MaxSize())
}

type offsetIterator struct {
	ItemIterator
	offset  int64
	skipped bool
}

// NewOffsetIterator drops all values of iter smaller than offset. The
// values are skipped lazily on first access.
func NewOffsetIterator(offset int64, iter ItemIterator) ItemIterator {
	return &offsetIterator{ItemIterator: iter, offset: offset}
}

func (it *offsetIterator) skip() {
	if !it.skipped {
		IteratorSkipUntil(it.ItemIterator, it.offset)
		it.skipped = true
	}
}

func (it *offsetIterator) HasMore() bool {
	it.skip()
	return it.ItemIterator.HasMore()
}

func (it *offsetIterator) Peek() int64 {
	it.skip()
	return it.ItemIterator.Peek()
}

func (it *offsetIterator) Next() int64 {
	it.skip()
	return it.ItemIterator.Next()
}

type sliceIterator struct {
	pos    int
	values []int64
}

// NewSliceIterator iterates over the given values in slice order.
func NewSliceIterator(values []int64) ItemIterator {
	return &sliceIterator{values: values}
}

func (it *sliceIterator) HasMore() bool {
	return it.pos < len(it.values)
}

func (it *sliceIterator) Peek() int64 {
	return it.values[it.pos]
}

func (it *sliceIterator) Next() int64 {
	it.pos += 1
	return it.values[it.pos-1]
}

func (it *sliceIterator) MaxSize() int {
	return len(it.values) - it.pos
}

func (it *sliceIterator) SkipUntil(val int64) {
	for it.pos < len(it.values) && it.values[it.pos] < val {
		it.pos += 1
	}
}
