package containers

import "errors"

var ErrEmpty = errors.New("queue is empty")

// Deque is a double-ended queue on top of a growable ring buffer.
type Deque[T any] struct {
	data       []T
	readIndex  int
	writeIndex int
	count      int
}

// Create a new Deque with room for size elements before it needs to grow.
func NewDeque[T any](size int) *Deque[T] {
	if size < 1 {
		size = 1
	}
	return &Deque[T]{
		data: make([]T, size),
	}
}

// PushBack adds an element at the end of the queue
func (d *Deque[T]) PushBack(value T) {
	if d.IsFull() {
		d.grow()
	}
	d.data[d.writeIndex] = value
	d.writeIndex = (d.writeIndex + 1) % len(d.data)
	d.count++
}

// PushFront adds an element at the front of the queue
func (d *Deque[T]) PushFront(value T) {
	if d.IsFull() {
		d.grow()
	}
	d.readIndex = (d.readIndex - 1 + len(d.data)) % len(d.data)
	d.data[d.readIndex] = value
	d.count++
}

// PopFront removes and returns the front element in the queue
func (d *Deque[T]) PopFront() (T, error) {
	var zero T
	if d.IsEmpty() {
		return zero, ErrEmpty
	}
	value := d.data[d.readIndex]
	d.data[d.readIndex] = zero
	d.readIndex = (d.readIndex + 1) % len(d.data)
	d.count--
	return value, nil
}

// PopBack removes and returns the last element in the queue
func (d *Deque[T]) PopBack() (T, error) {
	var zero T
	if d.IsEmpty() {
		return zero, ErrEmpty
	}
	d.writeIndex = (d.writeIndex - 1 + len(d.data)) % len(d.data)
	value := d.data[d.writeIndex]
	d.data[d.writeIndex] = zero
	d.count--
	return value, nil
}

// Peek returns the front element without removing it
func (d *Deque[T]) Peek() (T, error) {
	var zero T
	if d.IsEmpty() {
		return zero, ErrEmpty
	}
	return d.data[d.readIndex], nil
}

// Items returns a copy of the queued elements, front first.
func (d *Deque[T]) Items() []T {
	out := make([]T, 0, d.count)
	for i := 0; i < d.count; i++ {
		out = append(out, d.data[(d.readIndex+i)%len(d.data)])
	}
	return out
}

// Clear drops every element but keeps the allocated buffer.
func (d *Deque[T]) Clear() {
	var zero T
	for i := range d.data {
		d.data[i] = zero
	}
	d.readIndex = 0
	d.writeIndex = 0
	d.count = 0
}

func (d *Deque[T]) Len() int {
	return d.count
}

// IsEmpty checks if the queue is empty
func (d *Deque[T]) IsEmpty() bool {
	return d.count == 0
}

// IsFull checks if the ring buffer has to grow before the next push
func (d *Deque[T]) IsFull() bool {
	return d.count == len(d.data)
}

func (d *Deque[T]) grow() {
	next := make([]T, len(d.data)*2)
	for i := 0; i < d.count; i++ {
		next[i] = d.data[(d.readIndex+i)%len(d.data)]
	}
	d.data = next
	d.readIndex = 0
	d.writeIndex = d.count
}
