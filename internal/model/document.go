package model

import "time"

// DocumentType categorizes strata records for the documents register.
type DocumentType string

const (
	DocInsurance DocumentType = "insurance"
	DocFinancial DocumentType = "financial"
	DocMinutes   DocumentType = "minutes"
	DocOther     DocumentType = "other"
)

// ParseDocumentType validates a submitted document type, defaulting unknown
// values to DocOther the way the register always has.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(s) {
	case DocInsurance, DocFinancial, DocMinutes:
		return DocumentType(s)
	}
	return DocOther
}

// Document is a metadata row in the documents register.  Only the path and
// type are tracked here; file storage itself lives outside this service.
type Document struct {
	ID         uint64       // documents.id
	Title      string       // documents.title
	FilePath   string       // documents.file_path
	Type       DocumentType // documents.document_type
	UploadedBy *uint64      // documents.uploaded_by (nullable)
	CreatedAt  time.Time    // documents.created_at
}
