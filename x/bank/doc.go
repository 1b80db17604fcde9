/*
Package bank tracks native token balances.

Every address may own one wallet holding an amount of the native token.
Funds are moved with the Controller, which guards against overdrafts and
overflow. Handlers from other extensions use the controller to debit and
credit derived addresses, for example to lock funds under an address that
no key can sign for.
*/
package bank
