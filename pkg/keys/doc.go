// Package keys provides ledger address types and the deterministic
// program-derived address scheme used to locate journal entry accounts.
// Addresses are 32 bytes, rendered as base58. Derivation hashes the entry
// title and owner identity together with the program id and a bump seed,
// mirroring the derivation the remote program performs on its side.
package keys
