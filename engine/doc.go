/*
Package engine executes transactions on top of the account ledger.

Every transaction runs on its own cache wrap of the state. All accounts
referenced by its instructions are loaded, each instruction is processed by
the program it is addressed to and the resulting account states are written
back only when every instruction succeeded. A failing transaction leaves no
trace in the state.

After each invocation the engine compares the accounts with their state
before the invocation and rejects illegal changes:

  - a read only account must not change at all,
  - only the owner program may change data, debit lamports or assign a new
    owner,
  - executable accounts are immutable,
  - the sum of lamports must not change.

Programs may call other programs with Env.Invoke. A program can sign for
addresses derived from its own id by presenting the seeds of that address.
*/
package engine
