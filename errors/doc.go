/*
Package errors implements custom error interfaces for wardroom.

The idea is to reuse a small set of root errors declared in this package and
wrap them to provide the context of each failure. Errors are compared by
their root, using the Is method, never by the message. Every root error
carries a unique numeric code so failures can be classified over any
interface in a stable way.

Extensions declare their own root errors using the Register function with a
code from a range reserved for that extension.
*/
package errors
