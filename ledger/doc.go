/*
Package ledger keeps the state of all accounts.

An account is identified by its address and holds a lamport balance, an
owner program and opaque data that only the owner program may modify.
Accounts that are not present in the store are treated as empty accounts
owned by the system program.

The package also provides the rent parameters. An account is rent exempt
when its balance covers the storage cost of its data for the exemption
period. Programs read the parameters from the rent sysvar account.
*/
package ledger
