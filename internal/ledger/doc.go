// Package ledger implements the entitlement ledger: the authoritative
// runtime view of each account's tier, daily credit balance, and progress
// counters. The ledger is write-through, persisting every mutation via a
// store.EntitlementStore, but persistence failures never block a session:
// the in-memory state stays authoritative and the failure is logged.
package ledger
