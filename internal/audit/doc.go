// Package audit records keyward operations in a local audit trail.
//
// Key lifecycle events (generate, load, reset) and encrypt/decrypt calls are
// appended as JSON Lines to:
//
//	<data dir>/audit.jsonl
//
// Each entry carries a UTC timestamp with microseconds, the installation id
// and the operation name, plus operation-specific details such as the key
// file path or the keystore backend. Entries never contain key material or
// plaintext.
//
// # Failure Handling
//
// Audit logging is best-effort. If writing fails the operation continues
// without error.
package audit
