// internal/workflow/composer.go
//
// The composer holds one staged submission: the document-type codes picked
// so far, the optional PDF attachment and the optional expiration. It is
// recreated whenever the party selection changes and cleared only after a
// confirmed submission; failed submissions keep it populated so the
// operator can retry without re-entering anything.

package workflow

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/micasa/micasa-admin/internal/api"
	"github.com/micasa/micasa-admin/internal/catalog"
)

// Attachment is a file staged for upload.
type Attachment struct {
	Name string
	Data []byte
}

// Composer accumulates the operator's staged submission.
type Composer struct {
	id         string
	mode       catalog.Mode
	typeCodes  []string
	attachment *Attachment
	expiration time.Time
}

// NewComposer starts a fresh staging cycle for the given mode.
func NewComposer(mode catalog.Mode) *Composer {
	return &Composer{id: uuid.NewString(), mode: mode}
}

// ID identifies this staging cycle in the logbook.
func (c *Composer) ID() string { return c.id }

// Mode returns the party mode the composer was created for.
func (c *Composer) Mode() catalog.Mode { return c.mode }

// StageType appends a document-type code. Duplicates are allowed; codes
// outside the current mode's catalog are rejected.
func (c *Composer) StageType(code string) error {
	if _, ok := catalog.Lookup(c.mode, code); !ok {
		return &api.ValidationError{
			Field:   "document type",
			Message: fmt.Sprintf("%q is not a %s document type", code, c.mode),
		}
	}
	c.typeCodes = append(c.typeCodes, code)
	return nil
}

// Unstage drops the staged code at index i. Out-of-range is a no-op.
func (c *Composer) Unstage(i int) {
	if i < 0 || i >= len(c.typeCodes) {
		return
	}
	c.typeCodes = append(c.typeCodes[:i], c.typeCodes[i+1:]...)
}

// TypeCodes returns the staged codes in staging order.
func (c *Composer) TypeCodes() []string {
	return c.typeCodes
}

// Attach stages a single PDF file. Anything that does not sniff as
// application/pdf is rejected and the previous attachment, if any, stays.
func (c *Composer) Attach(name string, data []byte) error {
	if detected := http.DetectContentType(data); detected != "application/pdf" {
		return &api.ValidationError{
			Field:   "attachment",
			Message: fmt.Sprintf("%s is %s, only application/pdf is accepted", name, detected),
		}
	}
	c.attachment = &Attachment{Name: name, Data: data}
	return nil
}

// Attachment returns the staged file, or nil.
func (c *Composer) Attachment() *Attachment {
	return c.attachment
}

// ClearAttachment drops the staged file.
func (c *Composer) ClearAttachment() {
	c.attachment = nil
}

// SetExpiration records an expiration for the next submission. It is only
// meaningful for signature-tracked types; supporting-document submissions
// ignore it.
func (c *Composer) SetExpiration(t time.Time) {
	c.expiration = t
}

// ClearExpiration drops the staged expiration.
func (c *Composer) ClearExpiration() {
	c.expiration = time.Time{}
}

// ExpirationString formats the staged expiration for the wire, empty when
// unset.
func (c *Composer) ExpirationString() string {
	if c.expiration.IsZero() {
		return ""
	}
	return c.expiration.UTC().Format(time.RFC3339)
}

// Empty reports whether nothing has been staged yet.
func (c *Composer) Empty() bool {
	return len(c.typeCodes) == 0 && c.attachment == nil && c.expiration.IsZero()
}
