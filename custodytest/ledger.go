package custodytest

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/ledger"
)

// SetAccount stores an account. A nil owner means the system program.
func SetAccount(t testing.TB, db custody.KVStore, addr, owner custody.Address, lamports uint64, data []byte) {
	t.Helper()

	if owner == nil {
		owner = ledger.SystemProgramID
	}
	acc := &ledger.Account{
		Owner:    owner.Clone(),
		Lamports: lamports,
		Data:     data,
	}
	if err := ledger.NewBucket().Save(db, addr, acc); err != nil {
		t.Fatalf("cannot save account %s: %s", addr, err)
	}
}

// GetAccount returns the stored state of an account. Missing accounts are
// returned empty.
func GetAccount(t testing.TB, db custody.ReadOnlyKVStore, addr custody.Address) *ledger.Account {
	t.Helper()

	acc, err := ledger.NewBucket().GetOrEmpty(db, addr)
	if err != nil {
		t.Fatalf("cannot get account %s: %s", addr, err)
	}
	return acc
}

// Lamports returns the balance of an account.
func Lamports(t testing.TB, db custody.ReadOnlyKVStore, addr custody.Address) uint64 {
	t.Helper()
	return GetAccount(t, db, addr).Lamports
}

// SetRent stores the rent configuration and publishes the rent sysvar.
func SetRent(t testing.TB, db custody.KVStore, rent ledger.Rent) {
	t.Helper()

	if err := ledger.NewBucket().Save(db, ledger.RentSysvarID, rent.SysvarAccount()); err != nil {
		t.Fatalf("cannot save rent sysvar: %s", err)
	}
}
