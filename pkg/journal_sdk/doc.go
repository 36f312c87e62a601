// Package journal_sdk bootstraps a journal program bundle from environment
// variables, selecting between the HTTP gateway transport and a seeded
// in-memory mock ledger.
package journal_sdk
