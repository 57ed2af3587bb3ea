/*
Package custody defines interfaces used throughout the app, such as: storage,
accounts, instructions and programs. It also contains helpers to work with
addresses, context and genesis options.

A transaction is a list of instructions. Each instruction is addressed to a
program and lists the accounts it reads or modifies. The engine loads those
accounts, lets the program process the instruction and persists the result
only when every instruction of the transaction succeeded.

Look into this package to get a brief overview of design decisions made
around interfaces and extension building blocks.
*/
package custody
