/*
Package boxes implements time-locked fund custody.

A box locks an amount under a key-less derived address until a deadline.
Before the deadline anyone who knows the box address may release the
funds to a recipient of their choosing. From the deadline on, only the
administrative authority stored at initialization may sweep the funds
back. Each box closes exactly once: the record is zeroed and kept, so a
second release or sweep finds a closed box and fails without moving
funds.

Currency boxes hold native funds directly at the box address. Token
boxes keep their funds in a vault, a token account whose authority is
derived from the token box address. No key exists for the vault
authority. Handlers move vault funds by reproducing the derivation, a
capability no other caller has.
*/
package boxes
