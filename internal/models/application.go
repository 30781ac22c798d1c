package models

// Document slots an applicant may attach a file to, in the order they
// appear on the form and in the HR checklist.
var DocumentSlots = []string{
	"resume",
	"degree",
	"idProof",
	"experience",
	"certification1",
	"certification2",
	"other",
}

// RequiredDocumentSlots must all be present for a submission to go through.
var RequiredDocumentSlots = []string{"resume", "degree", "idProof"}

type Attachment struct {
	Slot        string `json:"slot"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

// Application is the transient submission payload. It is validated,
// forwarded to HR and discarded; nothing is stored.
type Application struct {
	FullName  string                 `json:"full_name"`
	Email     string                 `json:"email"`
	Phone     string                 `json:"phone,omitempty"`
	Position  string                 `json:"position"`
	Location  string                 `json:"location"`
	Documents map[string]*Attachment `json:"-"`
}
