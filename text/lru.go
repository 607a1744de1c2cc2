// SPDX-License-Identifier: Unlicense OR MIT

package text

// Cache memoizes the results of a Measurer. Like the Measurer it wraps,
// it is not safe for concurrent use.
type Cache struct {
	m       Measurer
	extents lru[extentKey, Extent]
	lines   lru[wrapKey, []Line]
}

type extentKey struct {
	str   string
	style Style
}

type wrapKey struct {
	str      string
	style    Style
	maxWidth float32
}

type lru[K comparable, V any] struct {
	m          map[K]*elem[K, V]
	head, tail *elem[K, V]
}

type elem[K comparable, V any] struct {
	next, prev *elem[K, V]
	key        K
	val        V
}

const maxSize = 1000

// NewCache returns a Cache in front of m.
func NewCache(m Measurer) *Cache {
	return &Cache{m: m}
}

func (c *Cache) Measure(str string, style Style) Extent {
	k := extentKey{str: str, style: style}
	if e, ok := c.extents.Get(k); ok {
		return e
	}
	e := c.m.Measure(str, style)
	c.extents.Put(k, e)
	return e
}

// Wrap returns the wrapped lines of str. The returned slice is shared
// between calls and must not be modified.
func (c *Cache) Wrap(str string, style Style, maxWidth float32) []Line {
	k := wrapKey{str: str, style: style, maxWidth: maxWidth}
	if l, ok := c.lines.Get(k); ok {
		return l
	}
	l := c.m.Wrap(str, style, maxWidth)
	c.lines.Put(k, l)
	return l
}

func (l *lru[K, V]) Get(k K) (V, bool) {
	if e, ok := l.m[k]; ok {
		l.remove(e)
		l.insert(e)
		return e.val, true
	}
	var zero V
	return zero, false
}

func (l *lru[K, V]) Put(k K, v V) {
	if l.m == nil {
		l.m = make(map[K]*elem[K, V])
		l.head = new(elem[K, V])
		l.tail = new(elem[K, V])
		l.head.prev = l.tail
		l.tail.next = l.head
	}
	val := &elem[K, V]{key: k, val: v}
	l.m[k] = val
	l.insert(val)
	if len(l.m) > maxSize {
		oldest := l.tail.next
		l.remove(oldest)
		delete(l.m, oldest.key)
	}
}

func (l *lru[K, V]) remove(e *elem[K, V]) {
	e.next.prev = e.prev
	e.prev.next = e.next
}

func (l *lru[K, V]) insert(e *elem[K, V]) {
	e.next = l.head
	e.prev = l.head.prev
	e.prev.next = e
	e.next.prev = e
}
