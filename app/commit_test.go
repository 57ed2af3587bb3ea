package app

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStore(t *testing.T) {
	cs := NewCommitStore(iavl.NewMemCommitStore())

	require.NoError(t, cs.DeliverStore().Set([]byte("foo"), []byte("bar")))
	require.NoError(t, cs.CheckStore().Set([]byte("check"), []byte("only")))

	// uncommitted data is not visible in the other cache
	v, err := cs.CheckStore().Get([]byte("foo"))
	require.NoError(t, err)
	assert.Nil(t, v)

	id, err := cs.Commit()
	require.NoError(t, err)
	assert.EqualValues(t, 1, id.Version)
	assert.NotEmpty(t, id.Hash)

	v, err = cs.CheckStore().Get([]byte("foo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), v)
	v, err = cs.DeliverStore().Get([]byte("check"))
	require.NoError(t, err)
	assert.Nil(t, v)

	info, err := cs.CommitInfo()
	require.NoError(t, err)
	assert.Equal(t, id, info)
}

func TestChainID(t *testing.T) {
	cs := NewCommitStore(iavl.NewMemCommitStore())
	db := cs.DeliverStore()

	assert.Equal(t, "", mustLoadChainID(db))
	err := saveChainID(db, "bad")
	assert.True(t, errors.ErrInvalidArgument.Is(err))

	require.NoError(t, saveChainID(db, "custody-chain"))
	assert.Equal(t, "custody-chain", mustLoadChainID(db))

	err = saveChainID(db, "other-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))
}
