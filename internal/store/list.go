package store

import "sync"

// listenerSet holds change listeners in subscription order.
type listenerSet struct {
	mu     sync.Mutex
	nextID int
	ids    []int
	fns    map[int]func()
}

func (l *listenerSet) subscribe(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.nextID
	l.nextID++
	l.ids = append(l.ids, id)
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.fns, id)
			for i, v := range l.ids {
				if v == id {
					l.ids = append(l.ids[:i], l.ids[i+1:]...)
					break
				}
			}
		})
	}
}

// notify calls every listener synchronously. Callers must not hold their
// own data lock so listeners can re-query.
func (l *listenerSet) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.ids))
	for _, id := range l.ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// List is an observable append-only collection.
type List[T any] struct {
	mu        sync.RWMutex
	items     []T
	listeners listenerSet
}

// NewList creates an empty list.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Add appends items and notifies listeners.
func (l *List[T]) Add(items ...T) {
	l.mu.Lock()
	l.items = append(l.items, items...)
	l.mu.Unlock()
	l.listeners.notify()
}

// All returns a copy of the items.
func (l *List[T]) All() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// Filter returns a copy of the items for which keep is true.
func (l *List[T]) Filter(keep func(T) bool) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []T
	for _, it := range l.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Clear removes every item and notifies listeners.
func (l *List[T]) Clear() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()
	l.listeners.notify()
}

// Subscribe registers fn to run after every Add or Clear.
func (l *List[T]) Subscribe(fn func()) func() {
	return l.listeners.subscribe(fn)
}
