/*
Package app binds the quorum engine and the token ledger into a single
service over one store. It owns call serialization and atomicity: each
mutating call runs on a cache-wrap that is committed only on success, and a
call arriving while another is in flight is refused.
*/
package app
