// Package credentials implements the Credential Store: the persistent
// key-value store that holds the access/refresh token pair and the
// paymentSubmitted cross-process signal.
//
// SQLiteStore is the production store; every client process opened on the
// same database file shares it. MemoryStore is a map-backed store for tests.
//
// The pair helpers (LoadPair, SavePair, ClearPair) enforce the rule that both
// tokens are present or both absent. An access token stored without its
// refresh token is cleared rather than trusted.
package credentials
