// Package session implements the session state machine that drives a topic
// from submission through content acquisition to the interactive dashboard.
//
// Each account owns one Machine cycling through INPUT, PROCESSING, and
// DASHBOARD. Entry into PROCESSING is gated on the entitlement ledger;
// during PROCESSING two cosmetic tickers animate progress while the
// generation pipeline runs; DASHBOARD exposes the study package and the
// quiz progression. A monotonically increasing epoch counter guards every
// asynchronous continuation, so stale pipeline results and timers from an
// abandoned run can never touch current state.
package session
