// Package audit provides PDR (Process Decision Record) writing for critterfocus.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/critterfocus/internal/models"
	"github.com/fentz26/critterfocus/internal/store"
)

// Outcomes recorded on PDR entries.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// PDRWriter writes Process Decision Records for audit trails.
type PDRWriter struct {
	store *store.Store
}

// NewPDRWriter creates a new PDR writer.
func NewPDRWriter(s *store.Store) *PDRWriter {
	return &PDRWriter{store: s}
}

// Record writes a PDR entry for a state-mutating action.
func (w *PDRWriter) Record(action string, inputs interface{}, outcome, subjectID, details string) (*models.PDREntry, error) {
	inputsHash := hashInputs(inputs)
	return w.store.WritePDR(action, inputsHash, outcome, subjectID, details)
}

// History returns recent entries, newest first. An empty subjectID returns
// entries for every subject.
func (w *PDRWriter) History(subjectID string, limit int) ([]models.PDREntry, error) {
	return w.store.ListPDR(subjectID, limit)
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
