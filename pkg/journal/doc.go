// Package journal is the data-access layer for the journal ledger program:
// binding a borrowed connection and caller identity into a program client,
// cluster-scoped cached reads, and mutation lifecycle management with cache
// invalidation and settlement notification. The package never owns the
// connection and never touches signing keys.
package journal
