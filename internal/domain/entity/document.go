package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType tags a supporting document attached to a statement.
type DocumentType string

const (
	DocumentVerbaleCAEP      DocumentType = "verbale_caep"
	DocumentEstrattoBancario DocumentType = "estratto_bancario"
	DocumentIMUTARI          DocumentType = "imu_tari"
	DocumentFornituraIdrica  DocumentType = "fornitura_idrica"
	DocumentAgenziaEntrate   DocumentType = "agenzia_entrate"
	DocumentAltro            DocumentType = "altro"
)

// DocumentCatalogEntry describes one document type.
type DocumentCatalogEntry struct {
	Type      DocumentType
	Label     string
	Mandatory bool
}

var documentCatalog = []DocumentCatalogEntry{
	{Type: DocumentVerbaleCAEP, Label: "Verbale CAEP", Mandatory: true},
	{Type: DocumentEstrattoBancario, Label: "Estratto conto bancario", Mandatory: true},
	{Type: DocumentIMUTARI, Label: "IMU / TARI", Mandatory: true},
	{Type: DocumentFornituraIdrica, Label: "Fornitura idrica", Mandatory: true},
	{Type: DocumentAgenziaEntrate, Label: "Agenzia delle Entrate", Mandatory: true},
	{Type: DocumentAltro, Label: "Altro", Mandatory: false},
}

// DocumentCatalog returns the fixed catalog in display order.
func DocumentCatalog() []DocumentCatalogEntry {
	out := make([]DocumentCatalogEntry, len(documentCatalog))
	copy(out, documentCatalog)
	return out
}

// IsValid reports whether t is part of the catalog.
func (t DocumentType) IsValid() bool {
	_, ok := t.Entry()
	return ok
}

// Entry returns the catalog entry for t.
func (t DocumentType) Entry() (DocumentCatalogEntry, bool) {
	for _, e := range documentCatalog {
		if e.Type == t {
			return e, true
		}
	}
	return DocumentCatalogEntry{}, false
}

// MissingMandatoryDocuments returns, in catalog order, the mandatory types absent from present.
func MissingMandatoryDocuments(present []DocumentType) []DocumentType {
	have := make(map[DocumentType]struct{}, len(present))
	for _, t := range present {
		have[t] = struct{}{}
	}
	var missing []DocumentType
	for _, e := range documentCatalog {
		if !e.Mandatory {
			continue
		}
		if _, ok := have[e.Type]; !ok {
			missing = append(missing, e.Type)
		}
	}
	return missing
}

// StoredFile is the metadata of an object kept in document storage.
type StoredFile struct {
	FileName    string
	ContentType string
	Size        int64
	StorageKey  string
}

// StatementDocument is the current document of a given type for a statement.
type StatementDocument struct {
	ID          uuid.UUID
	StatementID uuid.UUID
	Type        DocumentType
	StoredFile
	UploadedBy uuid.UUID
	UploadedAt time.Time
}

// NewStatementDocument creates a new StatementDocument.
func NewStatementDocument(statementID uuid.UUID, docType DocumentType, file StoredFile, uploadedBy uuid.UUID) *StatementDocument {
	return &StatementDocument{
		ID:          uuid.New(),
		StatementID: statementID,
		Type:        docType,
		StoredFile:  file,
		UploadedBy:  uploadedBy,
		UploadedAt:  time.Now().UTC(),
	}
}

// AttachmentPurposeRejection marks the file a reviewer attaches to a rejection.
const AttachmentPurposeRejection = "rejection"

// StatementAttachment is a reviewer-side file linked to a disposition.
type StatementAttachment struct {
	ID          uuid.UUID
	StatementID uuid.UUID
	Purpose     string
	StoredFile
	UploadedBy uuid.UUID
	UploadedAt time.Time
}

// NewRejectionAttachment creates the attachment of a rejection.
func NewRejectionAttachment(statementID uuid.UUID, file StoredFile, uploadedBy uuid.UUID) *StatementAttachment {
	return &StatementAttachment{
		ID:          uuid.New(),
		StatementID: statementID,
		Purpose:     AttachmentPurposeRejection,
		StoredFile:  file,
		UploadedBy:  uploadedBy,
		UploadedAt:  time.Now().UTC(),
	}
}
