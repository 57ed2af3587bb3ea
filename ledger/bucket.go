package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// BucketName is where we store the accounts
const BucketName = "acct"

// Bucket persists accounts under their address.
type Bucket struct {
	prefix []byte
}

// NewBucket returns a bucket for accounts.
func NewBucket() Bucket {
	return Bucket{prefix: []byte(BucketName + ":")}
}

// DBKey returns the database key of an account.
func (b Bucket) DBKey(addr custody.Address) []byte {
	return append(append([]byte(nil), b.prefix...), addr...)
}

// Get returns the account stored under given address or nil if it does not
// exist.
func (b Bucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	raw, err := db.Get(b.DBKey(addr))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get %s: %s", addr, err)
	}
	if raw == nil {
		return nil, nil
	}
	var acc Account
	if err := proto.Unmarshal(raw, &acc); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "unmarshal %s: %s", addr, err)
	}
	return &acc, nil
}

// GetOrEmpty works like Get, but returns an empty system account instead of
// nil.
func (b Bucket) GetOrEmpty(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	acc, err := b.Get(db, addr)
	if err != nil || acc != nil {
		return acc, err
	}
	return EmptyAccount(), nil
}

// Save writes the account. An account without lamports cannot pay for its
// storage and is deleted instead.
func (b Bucket) Save(db custody.KVStore, addr custody.Address, acc *Account) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if acc.Lamports == 0 {
		return b.Delete(db, addr)
	}
	if err := acc.Validate(); err != nil {
		return errors.Wrapf(err, "account %s", addr)
	}
	raw, err := proto.Marshal(acc)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "marshal %s: %s", addr, err)
	}
	return db.Set(b.DBKey(addr), raw)
}

// Delete removes the account.
func (b Bucket) Delete(db custody.KVStore, addr custody.Address) error {
	return db.Delete(b.DBKey(addr))
}

// Iterate calls fn for every stored account in address order.
func (b Bucket) Iterate(db custody.ReadOnlyKVStore, fn func(custody.Address, *Account) error) error {
	return b.IteratePrefix(db, nil, fn)
}

// IteratePrefix calls fn, in address order, for every stored account whose
// address starts with prefix. Only the matching key range is read.
func (b Bucket) IteratePrefix(db custody.ReadOnlyKVStore, prefix []byte, fn func(custody.Address, *Account) error) error {
	start := append(append([]byte(nil), b.prefix...), prefix...)
	iter, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "iterator: %s", err)
	}
	defer iter.Release()

	key, raw, err := iter.Next()
	for ; err == nil; key, raw, err = iter.Next() {
		var acc Account
		if err := proto.Unmarshal(raw, &acc); err != nil {
			return errors.Wrapf(errors.ErrInvalidState, "unmarshal %X: %s", key, err)
		}
		addr := custody.Address(key[len(b.prefix):]).Clone()
		if err := fn(addr, &acc); err != nil {
			return err
		}
	}
	if !errors.ErrIteratorDone.Is(err) {
		return err
	}
	return nil
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix. Nil means there is no upper bound.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
