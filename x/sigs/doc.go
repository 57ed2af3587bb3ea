/*
Package sigs verifies the ed25519 signatures attached to a transaction and
protects every signer against replays with a sequence number.

A signature covers

	version | len(chainID) | chainID      | sequence          | body
	4bytes  | uint8        | ascii string | int64 (bigendian) | serialized instructions

prehashed with sha512. The sequence a signature was made with must match the
one stored for the signing key, which is then incremented.
*/
package sigs
