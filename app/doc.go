/*
Package app wires the engine and its programs into a tendermint ABCI
application.

StoreApp keeps the iavl backed state, answers queries and handles the chain
lifecycle (genesis, blocks, commits). BaseApp adds transaction processing:
every transaction is decoded, its signatures are verified and the contained
instructions are executed by the engine on a cache of the current state.
*/
package app
