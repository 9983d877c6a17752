/*
Package quorum implements an m-of-n authorization engine for administrative
actions over a token ledger.

A group of signers shares control. Any signer may submit a transaction
describing an action (pause, mint, burn, registry changes and so on), which
counts as the proposer's confirmation. Other signers confirm or revoke. The
moment confirmations reach the threshold the transaction executes, applying
its effect through the Ledger interface. The signer registry itself is
mutated only through executed transactions, so every membership or threshold
change needs the same quorum as any other action.
*/
package quorum
