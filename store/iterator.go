package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/custody/errors"
)

// rangeBtree returns all items of the tree in [start, end), ascending.
// A nil start or end means no limit on that side.
func rangeBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// mergeIterator combines the cached items with the parent iterator.
// Cached items take precedence over parent values of the same key and
// deleted items hide them.
type mergeIterator struct {
	items     []btree.Item
	idx       int
	ascending bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
	parentErr  error
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []btree.Item, parent Iterator, ascending bool) *mergeIterator {
	it := &mergeIterator{
		items:     items,
		ascending: ascending,
		parent:    parent,
	}
	it.advanceParent()
	return it
}

func (m *mergeIterator) advanceParent() {
	key, value, err := m.parent.Next()
	switch {
	case err == nil:
		m.parentKey, m.parentVal = key, value
	case errors.ErrIteratorDone.Is(err):
		m.parentKey, m.parentVal = nil, nil
		m.parentDone = true
	default:
		m.parentErr = err
	}
}

// Next implements Iterator.
func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if m.parentErr != nil {
			return nil, nil, m.parentErr
		}

		if m.idx >= len(m.items) {
			if m.parentDone {
				return nil, nil, errors.ErrIteratorDone
			}
			key, value = m.parentKey, m.parentVal
			m.advanceParent()
			return key, value, nil
		}

		item := m.items[m.idx]
		if !m.parentDone {
			cmp := bytes.Compare(m.parentKey, item.(keyer).Key())
			if !m.ascending {
				cmp = -cmp
			}
			if cmp < 0 {
				key, value = m.parentKey, m.parentVal
				m.advanceParent()
				return key, value, nil
			}
			if cmp == 0 {
				// Overwritten or deleted in the cache.
				m.advanceParent()
			}
		}

		m.idx++
		switch t := item.(type) {
		case setItem:
			return t.key, t.value, nil
		case deletedItem:
			continue
		default:
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
		}
	}
}

// Release implements Iterator.
func (m *mergeIterator) Release() {
	m.items = nil
	m.parent.Release()
}
