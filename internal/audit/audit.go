package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Operation names recorded in the audit log.
const (
	OpKeyGenerate = "key.generate"
	OpKeyLoad     = "key.load"
	OpKeyReset    = "key.reset"
	OpEncrypt     = "encrypt"
	OpDecrypt     = "decrypt"
)

// Entry represents a single audit log entry. It never carries key material
// or plaintext.
type Entry struct {
	Timestamp    string `json:"ts"`           // RFC3339 with microseconds.
	Installation string `json:"installation"` // Installation UUID.
	Operation    string `json:"op"`

	KeyFile string `json:"key_file,omitempty"` // For key.* operations.
	Backend string `json:"backend,omitempty"`  // Keystore backend, for key.* operations.
	Mode    string `json:"mode,omitempty"`     // "master" or "password", for encrypt/decrypt.
}

// Log appends an entry to the audit log at logPath, normally
// Settings.AuditPath() of the installation the entry belongs to. An empty
// path disables auditing.
// Failures are ignored: operations never fail because auditing did.
func Log(logPath string, entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	if logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// NewEntry returns an entry for op stamped with the installation id.
func NewEntry(op, installationID string) Entry {
	return Entry{Operation: op, Installation: installationID}
}

// ReadEntries reads all entries from the audit log at logPath.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(logPath string) ([]Entry, error) {
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
