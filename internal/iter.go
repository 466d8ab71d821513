package internal

import (
	"iter"
)

// IterSeqConcat yields every value of each sequence in turn, stopping
// early when the consumer does.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return
				}
			}
		}
	}
}

// IterSeqCache replays a sequence to any number of consumers, pulling each
// value from the source only once. Values are pulled lazily, as consumers
// reach them.
type IterSeqCache[T any] struct {
	values []T
	next   func() (T, bool)
	stop   func()
	done   bool
}

// NewIterSeqCache returns a cache over seq. Stop must be called to release seq.
func NewIterSeqCache[T any](seq iter.Seq[T]) *IterSeqCache[T] {
	next, stop := iter.Pull(seq)
	return &IterSeqCache[T]{next: next, stop: stop}
}

// All iterates over the values of the source sequence.
func (c *IterSeqCache[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := 0; ; n++ {
			if n == len(c.values) {
				if c.done {
					return
				}
				value, ok := c.next()
				if !ok {
					c.done = true
					return
				}
				c.values = append(c.values, value)
			}
			if !yield(c.values[n]) {
				return
			}
		}
	}
}

// Stop releases the source sequence. Values already pulled remain available.
func (c *IterSeqCache[T]) Stop() {
	c.done = true
	c.stop()
}
