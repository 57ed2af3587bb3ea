package token

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	// MintSize is the length of a mint account data.
	MintSize = 1 + custody.AddressLength + 8 + 1

	// AccountSize is the length of a token account data.
	AccountSize = 1 + 2*custody.AddressLength + 8
)

// Mint describes a token type.
//
// Layout: is_initialized u8 | mint_authority 32 | supply u64 | decimals u8
type Mint struct {
	IsInitialized bool
	MintAuthority custody.Address
	Supply        uint64
	Decimals      uint8
}

// Pack writes the mint into dst, which must be MintSize long.
func (m *Mint) Pack(dst []byte) error {
	if len(dst) != MintSize {
		return errors.Wrapf(errors.ErrInvalidAccountData, "mint of %d bytes", len(dst))
	}
	if err := packAddress(dst[1:33], m.MintAuthority); err != nil {
		return errors.Wrap(err, "mint authority")
	}
	dst[0] = packBool(m.IsInitialized)
	binary.LittleEndian.PutUint64(dst[33:41], m.Supply)
	dst[41] = m.Decimals
	return nil
}

// UnpackMint reads a mint. An all zero buffer is an uninitialized mint.
func UnpackMint(src []byte) (*Mint, error) {
	if len(src) != MintSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "mint of %d bytes", len(src))
	}
	initialized, err := unpackBool(src[0])
	if err != nil {
		return nil, err
	}
	return &Mint{
		IsInitialized: initialized,
		MintAuthority: unpackAddress(src[1:33]),
		Supply:        binary.LittleEndian.Uint64(src[33:41]),
		Decimals:      src[41],
	}, nil
}

// Account is a token balance.
//
// Layout: is_initialized u8 | mint 32 | owner 32 | amount u64
type Account struct {
	IsInitialized bool
	Mint          custody.Address
	Owner         custody.Address
	Amount        uint64
}

// Pack writes the account into dst, which must be AccountSize long.
func (a *Account) Pack(dst []byte) error {
	if len(dst) != AccountSize {
		return errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(dst))
	}
	if err := packAddress(dst[1:33], a.Mint); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := packAddress(dst[33:65], a.Owner); err != nil {
		return errors.Wrap(err, "owner")
	}
	dst[0] = packBool(a.IsInitialized)
	binary.LittleEndian.PutUint64(dst[65:73], a.Amount)
	return nil
}

// UnpackAccount reads a token account. An all zero buffer is an
// uninitialized account.
func UnpackAccount(src []byte) (*Account, error) {
	if len(src) != AccountSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(src))
	}
	initialized, err := unpackBool(src[0])
	if err != nil {
		return nil, err
	}
	return &Account{
		IsInitialized: initialized,
		Mint:          unpackAddress(src[1:33]),
		Owner:         unpackAddress(src[33:65]),
		Amount:        binary.LittleEndian.Uint64(src[65:73]),
	}, nil
}

func packBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func unpackBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(errors.ErrInvalidAccountData, "flag %d", b)
	}
}

// packAddress copies addr into dst. An empty address is stored as zeros.
func packAddress(dst []byte, addr custody.Address) error {
	if len(addr) == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return nil
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	copy(dst, addr)
	return nil
}

func unpackAddress(src []byte) custody.Address {
	for _, b := range src {
		if b != 0 {
			return custody.Address(src).Clone()
		}
	}
	return nil
}
