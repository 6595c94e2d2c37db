package app

import "container/list"

// boundedMap is a capacity-limited map with oldest-entry eviction. It is
// not safe for concurrent use; callers hold their own lock.
type boundedMap[K comparable, V any] struct {
	capacity int
	entries  map[K]*list.Element
	order    *list.List
}

type cacheEntry[K comparable, V any] struct {
	key   K
	value V
}

func newBoundedMap[K comparable, V any](capacity int) *boundedMap[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &boundedMap[K, V]{
		capacity: capacity,
		entries:  make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

func (m *boundedMap[K, V]) get(key K) (V, bool) {
	if el, ok := m.entries[key]; ok {
		return el.Value.(*cacheEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

func (m *boundedMap[K, V]) put(key K, value V) {
	if el, ok := m.entries[key]; ok {
		el.Value.(*cacheEntry[K, V]).value = value
		m.order.MoveToBack(el)
		return
	}
	if len(m.entries) >= m.capacity {
		oldest := m.order.Front()
		if oldest != nil {
			m.order.Remove(oldest)
			delete(m.entries, oldest.Value.(*cacheEntry[K, V]).key)
		}
	}
	m.entries[key] = m.order.PushBack(&cacheEntry[K, V]{key: key, value: value})
}

func (m *boundedMap[K, V]) len() int {
	return len(m.entries)
}
