/*
Package escrow implements a custodial swap of two token balances.

The initializer offers the tokens held by a custody token account and asks
for an amount of another token in exchange. Initialize records the offer in
an escrow record account and hands the custody account over to an authority
derived from the program id. Nobody holds a key for that address, so from
that moment only this program can move the offered tokens.

A taker completes the swap with Exchange. In a single transaction the taker
pays the expected amount to the initializer, the custody balance goes to the
taker, and the custody and record accounts are closed with their lamports
returned to the initializer. If any step fails the whole transaction is
discarded.

When the auction is enabled in the configuration, takers can place bids.
Bid only records the highest bid. An exchange must declare an amount above
the highest recorded bid, and the declared amount must also equal the custody
balance. A bid at or above the custody balance therefore blocks every
exchange, and since there is no cancel operation the offered tokens stay in
custody for good.
*/
package escrow
