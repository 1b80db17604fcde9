/*
Package x contains some standard extensions

Extensions implement common functionality (leaf nodes) and can be combined
in an application. They are the domain logic that processes messages and
maintains state.

This package contains the interfaces shared by all extensions, most
notably the Authenticator abstraction that decouples handlers from the
way conditions were proven.
*/
package x
