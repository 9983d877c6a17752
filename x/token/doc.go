/*
Package token implements the fungible token ledger that quorum decisions
govern. It keeps per account balances, the total supply and the token
metadata, and exposes mint, burn, transfer and metadata operations. It has
no notion of authorization, the quorum engine decides who may call what.
*/
package token
