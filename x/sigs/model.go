package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

// BucketName is where we store the signer state
const BucketName = "sigs"

// UserData is the state kept for every key that ever signed a transaction.
type UserData struct {
	Pubkey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset()         { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage()    {}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	// Clients represent the sequence as a javascript number.
	const maxSequenceValue = (1 << 53) - 1
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket persists UserData under the address of the public key.
type Bucket struct {
	prefix []byte
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{prefix: []byte(BucketName + ":")}
}

func (b Bucket) dbKey(addr custody.Address) []byte {
	return append(append([]byte(nil), b.prefix...), addr...)
}

// Get returns the user stored under given address or nil.
func (b Bucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*UserData, error) {
	raw, err := db.Get(b.dbKey(addr))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get %s: %s", addr, err)
	}
	if raw == nil {
		return nil, nil
	}
	var u UserData
	if err := proto.Unmarshal(raw, &u); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "unmarshal %s: %s", addr, err)
	}
	return &u, nil
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	u, err := b.Get(db, pubkey.Address())
	if err != nil || u != nil {
		return u, err
	}
	return &UserData{Pubkey: pubkey}, nil
}

// Save writes the user state.
func (b Bucket) Save(db custody.KVStore, u *UserData) error {
	addr := u.Pubkey.Address()
	if addr == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	raw, err := proto.Marshal(u)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "marshal %s: %s", addr, err)
	}
	return db.Set(b.dbKey(addr), raw)
}
