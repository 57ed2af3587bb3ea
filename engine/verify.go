package engine

import (
	"bytes"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

func snapshot(accounts []*custody.AccountInfo) map[string]*custody.AccountInfo {
	res := make(map[string]*custody.AccountInfo, len(accounts))
	for _, a := range accounts {
		res[string(a.Key)] = a.Clone()
	}
	return res
}

// verify checks that program made only the changes it is allowed to make.
// Flags are taken from the reference state so that a program cannot grant
// itself more rights.
func verify(program custody.Address, pre map[string]*custody.AccountInfo, accounts []*custody.AccountInfo) error {
	var preSum, postSum uint64
	seen := make(map[string]bool, len(accounts))

	for _, post := range accounts {
		key := string(post.Key)
		before, ok := pre[key]
		if !ok {
			return errors.Wrapf(errors.ErrModifiedReadonly, "account %s was replaced", post.Key)
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := verifyAccount(program, before, post); err != nil {
			return errors.Wrapf(err, "account %s", post.Key)
		}

		var ok1, ok2 bool
		preSum, ok1 = add(preSum, before.Lamports)
		postSum, ok2 = add(postSum, post.Lamports)
		if !ok1 || !ok2 {
			return errors.Wrap(errors.ErrOverflow, "sum of lamports")
		}
	}
	if preSum != postSum {
		return errors.Wrapf(errors.ErrUnbalanced, "before %d, after %d", preSum, postSum)
	}
	return nil
}

func verifyAccount(program custody.Address, before, after *custody.AccountInfo) error {
	owned := before.Owner.Equals(program)

	if before.Executable {
		if accountChanged(before, after) {
			return errors.Wrap(errors.ErrModifiedReadonly, "executable account")
		}
		return nil
	}
	if after.Executable {
		return errors.Wrap(errors.ErrModifiedReadonly, "executable flag")
	}
	if !before.IsWritable && accountChanged(before, after) {
		return errors.Wrap(errors.ErrModifiedReadonly, "read only account")
	}
	if !after.Owner.Equals(before.Owner) && !owned {
		return errors.Wrap(errors.ErrModifiedReadonly, "owner can be assigned by the owner only")
	}
	if after.Lamports < before.Lamports && !owned {
		return errors.Wrap(errors.ErrModifiedReadonly, "lamports can be debited by the owner only")
	}
	if !bytes.Equal(before.Data, after.Data) && !owned {
		return errors.Wrap(errors.ErrModifiedReadonly, "data can be modified by the owner only")
	}
	return nil
}

// accountChanged returns true if the persisted part of the account differs.
func accountChanged(before, after *custody.AccountInfo) bool {
	return !after.Key.Equals(before.Key) ||
		!after.Owner.Equals(before.Owner) ||
		after.Lamports != before.Lamports ||
		after.Executable != before.Executable ||
		!bytes.Equal(before.Data, after.Data)
}

func add(a, b uint64) (uint64, bool) {
	c := a + b
	return c, c >= a
}
