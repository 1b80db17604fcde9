/*
Package lockbox defines all common interfaces that tie the module together,
as well as implementations of some of the simpler components (when interfaces
would be too much overhead).

The heart of the module is the box escrow state machine implemented under
x/boxes: a sender deposits native funds or tokens into a key-less, condition
derived account, tagged with an identifier and a deadline. Anyone who knows
the box may release the funds to a recipient before the deadline; after the
deadline only the configured authority may sweep them back.

We pass context through context.Context between app, middleware, and
handlers. To do so, lockbox defines some common keys to store info, such as
block height and time. Each extension, such as auth, may add its own keys to
enrich the context with specific data.
*/
package lockbox
