/*
Package token models externally issued tokens.

A token account binds an (authority, mint) pair to a balance. The account
address is derived from the pair, so there is a single canonical account
per pair and anyone can compute where it lives. Moving funds out of an
account requires proving the stored authority: either a transaction
signature, or reproducing the condition a key-less authority address was
derived from. Creating an account locks a storage deposit in native
funds, refunded when the empty account is closed.
*/
package token
