/*
Package token implements a fungible token ledger program.

A mint defines a token type and the authority allowed to issue it. Token
accounts hold a balance of a single mint and are controlled by an owner
address. The owner is not the account owner in the engine sense: all token
accounts belong to this program, the token owner is recorded in the account
data and must sign every instruction that moves tokens out.

The owner of a token account can be changed. Another program can take over
a token account by setting the owner to an address derived from its own
program id, after which only that program can move the tokens.
*/
package token
