package model

// List is an intrusive doubly-linked list of entries ordered from most (front) to least (back) recently used.
// Links live inside Entry, so push/remove/move never allocate.
type List struct {
	front, back *Entry
	len         int
}

func (l *List) Len() int      { return l.len }
func (l *List) Front() *Entry { return l.front }
func (l *List) Back() *Entry  { return l.back }

// PushFront links e as the most recently used entry. e must not be listed.
func (l *List) PushFront(e *Entry) {
	e.prev = nil
	e.next = l.front
	if l.front != nil {
		l.front.prev = e
	} else {
		l.back = e
	}
	l.front = e
	e.listed = true
	l.len++
}

// Remove unlinks e. It is a no-op for entries which are not listed.
func (l *List) Remove(e *Entry) {
	if !e.listed {
		return
	}
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.front = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.back = e.prev
	}
	e.prev, e.next, e.listed = nil, nil, false
	l.len--
}

// MoveToFront promotes e to most recently used. It is a no-op for entries which are not listed.
func (l *List) MoveToFront(e *Entry) {
	if !e.listed || l.front == e {
		return
	}
	l.Remove(e)
	l.PushFront(e)
}

// Init unlinks every entry.
func (l *List) Init() {
	for e := l.front; e != nil; {
		next := e.next
		e.prev, e.next, e.listed = nil, nil, false
		e = next
	}
	l.front, l.back, l.len = nil, nil, 0
}
