package export

import (
	"encoding/json"
	"fmt"
)

// ParseImport accepts either a bare JSON array of records (the legacy export
// format) or the full-backup object {records, collections}. Collections are
// nil for a legacy import, signalling the caller to leave the existing
// collection set untouched. A parse failure returns an error and nothing is
// applied.
func ParseImport(data []byte) (*Backup, error) {
	var backup Backup

	// Legacy format first: a bare array of records. A JSON null decodes
	// without error but leaves the slice nil; that is not an array, so it
	// falls through to the object path and fails there.
	if err := json.Unmarshal(data, &backup.Records); err == nil && backup.Records != nil {
		backup.Collections = nil
		return &backup, nil
	}
	backup.Records = nil

	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	if backup.Records == nil {
		return nil, fmt.Errorf("parse import: no records field")
	}
	return &backup, nil
}
