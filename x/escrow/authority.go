package escrow

import "github.com/iov-one/custody"

const authorityTag = "escrow"

// AuthoritySeeds returns the seeds presented to the engine when the program
// signs as the custody authority. Every call returns a fresh copy.
func AuthoritySeeds() custody.SignerSeeds {
	return custody.SignerSeeds{[]byte(authorityTag)}
}

// Authority returns the address that controls custody accounts of given
// escrow program.
func Authority(program custody.Address) custody.Address {
	return AuthoritySeeds().Address(program)
}
