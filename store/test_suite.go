package store

import (
	"bytes"
	"testing"

	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

// TestSuite checks the behaviour transaction execution relies on against
// any CacheableKVStore implementation. It is used by btree_test.go and
// iavl/commit_test.go.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// CacheWriteDiscard runs a failed and a successful transaction on top of
// the same base. Only the successful one may leave a trace.
func (s *TestSuite) CacheWriteDiscard(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	alice, bob, record := []byte("acct:alice"), []byte("acct:bob"), []byte("acct:record")
	assert.Nil(t, base.Set(alice, []byte("1000")))

	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(alice, []byte("700")))
	assert.Nil(t, failed.Set(bob, []byte("300")))
	s.AssertGetHas(t, failed, alice, []byte("700"), true)
	s.AssertGetHas(t, failed, bob, []byte("300"), true)
	failed.Discard()

	s.AssertGetHas(t, base, alice, []byte("1000"), true)
	s.AssertGetHas(t, base, bob, nil, false)

	ok := base.CacheWrap()
	assert.Nil(t, ok.Set(bob, []byte("300")))
	assert.Nil(t, ok.Set(record, []byte("escrow")))
	assert.Nil(t, ok.Delete(alice))
	s.AssertGetHas(t, ok, alice, nil, false)
	s.AssertGetHas(t, base, bob, nil, false)

	assert.Nil(t, ok.Write())
	s.AssertGetHas(t, base, alice, nil, false)
	s.AssertGetHas(t, base, bob, []byte("300"), true)
	s.AssertGetHas(t, base, record, []byte("escrow"), true)
}

// NestedCache wraps a cache in another cache, the way an instruction runs
// inside a transaction. Writing the inner cache only reaches the outer one.
func (s *TestSuite) NestedCache(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	seq, acct := []byte("sigs:alice"), []byte("acct:alice")
	assert.Nil(t, base.Set(acct, []byte("1000")))

	tx := base.CacheWrap()
	assert.Nil(t, tx.Set(seq, []byte{1}))

	ins := tx.CacheWrap()
	s.AssertGetHas(t, ins, seq, []byte{1}, true)
	assert.Nil(t, ins.Set(acct, []byte("900")))
	assert.Nil(t, ins.Write())

	s.AssertGetHas(t, tx, acct, []byte("900"), true)
	s.AssertGetHas(t, base, acct, []byte("1000"), true)
	s.AssertGetHas(t, base, seq, nil, false)

	assert.Nil(t, tx.Write())
	s.AssertGetHas(t, base, acct, []byte("900"), true)
	s.AssertGetHas(t, base, seq, []byte{1}, true)
}

// CacheIterator iterates a cache that overwrites, deletes and adds keys of
// its parent.
func (s *TestSuite) CacheIterator(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	parent := []Model{
		Pair([]byte("acct:a"), []byte("1")),
		Pair([]byte("acct:b"), []byte("2")),
		Pair([]byte("acct:d"), []byte("4")),
		Pair([]byte("acct:f"), []byte("6")),
	}
	for _, m := range parent {
		assert.Nil(t, base.Set(m.Key, m.Value))
	}

	child := base.CacheWrap()
	for _, op := range []Op{
		SetOp([]byte("acct:b"), []byte("22")),
		DelOp([]byte("acct:d")),
		SetOp([]byte("acct:c"), []byte("3")),
		SetOp([]byte("acct:g"), []byte("7")),
		DelOp([]byte("acct:x")),
	} {
		assert.Nil(t, op.Apply(child))
	}

	all := []Model{
		Pair([]byte("acct:a"), []byte("1")),
		Pair([]byte("acct:b"), []byte("22")),
		Pair([]byte("acct:c"), []byte("3")),
		Pair([]byte("acct:f"), []byte("6")),
		Pair([]byte("acct:g"), []byte("7")),
	}
	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"everything": {
			want: all,
		},
		"everything reversed": {
			reverse: true,
			want:    reverse(all),
		},
		"start is inclusive": {
			start: []byte("acct:b"),
			want:  all[1:],
		},
		"end is exclusive": {
			end:  []byte("acct:f"),
			want: all[:3],
		},
		"deleted start key": {
			start: []byte("acct:d"),
			end:   []byte("acct:g"),
			want:  all[3:4],
		},
		"bounded and reversed": {
			start:   []byte("acct:b"),
			end:     []byte("acct:g"),
			reverse: true,
			want:    reverse(all[1:4]),
		},
		"only deleted keys in range": {
			start: []byte("acct:d"),
			end:   []byte("acct:e"),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assertIterates(t, child, tc.start, tc.end, tc.reverse, tc.want)
		})
	}

	assertIterates(t, base, nil, nil, false, parent)
}

// PrefixScan checks that a range built from a key prefix only returns the
// keys under that prefix. Account listings are read this way.
func (s *TestSuite) PrefixScan(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, m := range []Model{
		Pair([]byte("acct:b"), []byte("2")),
		Pair([]byte("acct:a"), []byte("1")),
		Pair([]byte("acct;"), []byte("x")),
		Pair([]byte("_c:escrow"), []byte("conf")),
	} {
		assert.Nil(t, base.Set(m.Key, m.Value))
	}
	child := base.CacheWrap()
	assert.Nil(t, child.Set([]byte("acct:c"), []byte("3")))
	assert.Nil(t, child.Delete([]byte("acct:a")))

	assertIterates(t, child, []byte("acct:"), []byte("acct;"), false, []Model{
		Pair([]byte("acct:b"), []byte("2")),
		Pair([]byte("acct:c"), []byte("3")),
	})
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func assertIterates(t testing.TB, kv ReadOnlyKVStore, start, end []byte, reversed bool, want []Model) {
	t.Helper()
	var (
		iter Iterator
		err  error
	)
	if reversed {
		iter, err = kv.ReverseIterator(start, end)
	} else {
		iter, err = kv.Iterator(start, end)
	}
	assert.Nil(t, err)
	defer iter.Release()

	for i, m := range want {
		key, value, err := iter.Next()
		assert.Nil(t, err)
		if !bytes.Equal(m.Key, key) {
			t.Fatalf("want key %d %q, got %q", i, m.Key, key)
		}
		assert.Equal(t, m.Value, value)
	}
	if key, _, err := iter.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want end of iteration, got key %q and %+v", key, err)
	}
}

// reverse returns a copy of the slice with elements in reverse order
func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
