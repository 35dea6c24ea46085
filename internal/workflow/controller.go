// internal/workflow/controller.go
//
// The controller owns the workflow state: the roster selection, the
// composer, and the submission pipeline. Every state change goes through
// an explicit operation here; the TUI only renders what the controller
// exposes and calls these operations from tea commands.
//
// Local ledger updates are applied strictly after the backend confirms a
// mutation. A failed submit keeps the composer populated; a failed remove
// leaves the ledger untouched.

package workflow

import (
	"context"
	"sync"

	"github.com/micasa/micasa-admin/internal/api"
	"github.com/micasa/micasa-admin/internal/catalog"
	"github.com/micasa/micasa-admin/internal/party"
)

// Backend is the slice of the API client the workflow drives. *api.Client
// satisfies it; tests substitute a recorder.
type Backend interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
	AddDocument(ctx context.Context, in api.AddDocumentInput) error
	AddCounterOffer(ctx context.Context, in api.AddCounterOfferInput) error
	AddSupportingDocument(ctx context.Context, buyerID, pdfURL, title string) error
	RemoveSellerDocument(ctx context.Context, userID, documentName string) error
	RemoveCounterOffer(ctx context.Context, buyerID, documentName string) error
	CreateBuyer(ctx context.Context, buyerName, sellerID string) (party.Buyer, error)
}

// Logger matches the logbook surface the controller writes to.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// LedgerEntry is one row of the document ledger for the active party.
type LedgerEntry struct {
	Name       string
	Completed  bool
	Supporting bool // buyer supporting documents: no completion, no removal
}

// Controller is the workflow state machine behind the form.
//
// Backend calls run in tea.Cmd goroutines while the TUI keeps rendering,
// so every local-state read and confirmed-success apply goes through mu.
// Overlapping removes serialize here: last confirmed wins, no merging.
type Controller struct {
	roster  *party.Roster
	backend Backend
	logger  Logger

	mu       sync.Mutex
	phase    Phase
	composer *Composer
}

// NewController wires the workflow over a loaded roster.
func NewController(roster *party.Roster, backend Backend, logger Logger) *Controller {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Controller{
		roster:   roster,
		backend:  backend,
		logger:   logger,
		composer: NewComposer(catalog.ModeSeller),
	}
}

// Roster exposes the party selection state.
func (c *Controller) Roster() *party.Roster {
	return c.roster
}

// Mode derives the party mode from the current selection.
func (c *Controller) Mode() catalog.Mode {
	if c.roster.ActiveBuyer() != nil {
		return catalog.ModeBuyer
	}
	return catalog.ModeSeller
}

// Composer returns the current staging cycle.
func (c *Controller) Composer() *Composer {
	return c.composer
}

// Phase reports the pipeline phase for rendering.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// SelectSeller activates a seller and starts a fresh staging cycle.
// Unknown ids keep the previous selection and composer.
func (c *Controller) SelectSeller(id string) *party.Seller {
	before := c.roster.ActiveSeller()
	seller := c.roster.SelectSeller(id)
	if seller != before && seller != nil {
		c.composer = NewComposer(catalog.ModeSeller)
		c.logger.Info("workflow · seller %s selected (%s)", seller.ID, seller.DisplayName())
	}
	return seller
}

// SelectBuyer activates a buyer under the current seller and starts a
// fresh buyer-mode staging cycle. Unknown ids keep the previous state.
func (c *Controller) SelectBuyer(id string) *party.Buyer {
	before := c.roster.ActiveBuyer()
	buyer := c.roster.SelectBuyer(id)
	if buyer != before && buyer != nil {
		c.composer = NewComposer(catalog.ModeBuyer)
		c.logger.Info("workflow · buyer %s selected (%s)", buyer.ID, buyer.Name)
	}
	return buyer
}

// ClearBuyer returns the form to seller mode with a fresh staging cycle.
func (c *Controller) ClearBuyer() {
	if c.roster.ActiveBuyer() == nil {
		return
	}
	c.roster.ClearBuyer()
	c.composer = NewComposer(catalog.ModeSeller)
}

// LedgerEntries re-derives the ledger rows for the active party on every
// call; nothing is cached. Seller mode lists documents; buyer mode lists
// counter-offers followed by supporting documents.
func (c *Controller) LedgerEntries() []LedgerEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if buyer := c.roster.ActiveBuyer(); buyer != nil {
		entries := make([]LedgerEntry, 0, len(buyer.CounterOffers)+len(buyer.SupportingDocuments))
		for _, offer := range buyer.CounterOffers {
			entries = append(entries, LedgerEntry{Name: offer.Name, Completed: offer.Completed})
		}
		for _, doc := range buyer.SupportingDocuments {
			entries = append(entries, LedgerEntry{Name: doc.Name, Supporting: true})
		}
		return entries
	}
	seller := c.roster.ActiveSeller()
	if seller == nil {
		return nil
	}
	entries := make([]LedgerEntry, 0, len(seller.Documents))
	for _, doc := range seller.Documents {
		entries = append(entries, LedgerEntry{Name: doc.Name, Completed: doc.Completed})
	}
	return entries
}

// beginSubmit is the pipeline's re-entrancy guard.
func (c *Controller) beginSubmit(next Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase.Busy() {
		return ErrBusy
	}
	c.phase = next
	return nil
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

// Submit runs one submission cycle: optional upload, then the mutation
// picked by party mode and the first staged type code. On success the
// composer is cleared and placeholder records are appended to the local
// ledger; on any failure the staged state survives for a retry.
//
// Buyer submissions use only the first staged code even when several are
// staged. That is the backend contract, not an oversight; multi-type
// buyer submission does not exist.
func (c *Controller) Submit(ctx context.Context) error {
	composer := c.composer
	mode := c.Mode()

	seller := c.roster.ActiveSeller()
	if seller == nil {
		return &api.ValidationError{Field: "seller", Message: "select a seller before submitting"}
	}
	buyer := c.roster.ActiveBuyer()
	if mode == catalog.ModeBuyer && buyer == nil {
		return &api.ValidationError{Field: "buyer", Message: "select a buyer before submitting"}
	}
	codes := composer.TypeCodes()
	if len(codes) == 0 {
		return &api.ValidationError{Field: "document types", Message: "stage at least one document type"}
	}

	startPhase := PhaseSubmitting
	if composer.Attachment() != nil {
		startPhase = PhaseUploading
	}
	if err := c.beginSubmit(startPhase); err != nil {
		return err
	}
	defer c.setPhase(PhaseIdle)

	pdfURL := ""
	if attachment := composer.Attachment(); attachment != nil {
		url, err := c.backend.Upload(ctx, attachment.Name, attachment.Data)
		if err != nil {
			c.logger.Error("workflow · cycle %s upload failed: %v", composer.ID(), err)
			return err
		}
		pdfURL = url
		c.setPhase(PhaseSubmitting)
	}

	expiration := composer.ExpirationString()
	var err error
	switch {
	case mode == catalog.ModeBuyer && catalog.IsSupporting(codes[0]):
		err = c.backend.AddSupportingDocument(ctx, buyer.ID, pdfURL, codes[0])
	case mode == catalog.ModeBuyer:
		err = c.backend.AddCounterOffer(ctx, api.AddCounterOfferInput{
			BuyerID:        buyer.ID,
			SellerID:       seller.ID,
			PDFURL:         pdfURL,
			ExpirationTime: expiration,
			Title:          codes[0],
		})
	default:
		err = c.backend.AddDocument(ctx, api.AddDocumentInput{
			UserID:         seller.ID,
			Documents:      codes,
			Address:        seller.Address,
			Parcel:         seller.Parcel,
			County:         seller.County,
			PDFURL:         pdfURL,
			ExpirationTime: expiration,
		})
	}
	if err != nil {
		c.logger.Error("workflow · cycle %s submit failed: %v", composer.ID(), err)
		return err
	}

	// Confirmed by the backend; now reflect it locally and reset staging.
	c.mu.Lock()
	switch {
	case mode == catalog.ModeBuyer && catalog.IsSupporting(codes[0]):
		buyer.AppendSupportingDocument(codes[0])
	case mode == catalog.ModeBuyer:
		buyer.AppendCounterOffer(codes[0], expiration)
	default:
		seller.AppendDocuments(codes)
	}
	c.composer = NewComposer(mode)
	c.mu.Unlock()
	c.logger.Info("workflow · cycle %s submitted %d type(s) for %s", composer.ID(), len(codes), mode)
	return nil
}

// Remove issues the remove mutation for the active party and, only once
// the backend confirms it, drops every matching name from the local
// ledger. Supporting documents cannot be removed.
func (c *Controller) Remove(ctx context.Context, documentName string) error {
	if buyer := c.roster.ActiveBuyer(); buyer != nil {
		c.mu.Lock()
		for _, doc := range buyer.SupportingDocuments {
			if doc.Name == documentName {
				c.mu.Unlock()
				return &api.ValidationError{Field: "document", Message: "supporting documents cannot be removed"}
			}
		}
		c.mu.Unlock()
		if err := c.backend.RemoveCounterOffer(ctx, buyer.ID, documentName); err != nil {
			c.logger.Warn("workflow · remove %s for buyer %s failed: %v", documentName, buyer.ID, err)
			return err
		}
		c.mu.Lock()
		buyer.RemoveCounterOffer(documentName)
		c.mu.Unlock()
		c.logger.Info("workflow · removed %s for buyer %s", documentName, buyer.ID)
		return nil
	}
	seller := c.roster.ActiveSeller()
	if seller == nil {
		return &api.ValidationError{Field: "seller", Message: "select a seller first"}
	}
	if err := c.backend.RemoveSellerDocument(ctx, seller.ID, documentName); err != nil {
		c.logger.Warn("workflow · remove %s for seller %s failed: %v", documentName, seller.ID, err)
		return err
	}
	c.mu.Lock()
	seller.RemoveDocument(documentName)
	c.mu.Unlock()
	c.logger.Info("workflow · removed %s for seller %s", documentName, seller.ID)
	return nil
}

// CreateBuyer attaches a new buyer to the active seller and appends it to
// the local buyer list once the backend confirms.
func (c *Controller) CreateBuyer(ctx context.Context, name string) (*party.Buyer, error) {
	seller := c.roster.ActiveSeller()
	if seller == nil {
		return nil, &api.ValidationError{Field: "seller", Message: "select a seller first"}
	}
	if name == "" {
		return nil, &api.ValidationError{Field: "buyer name", Message: "buyer name is required"}
	}
	created, err := c.backend.CreateBuyer(ctx, name, seller.ID)
	if err != nil {
		c.logger.Warn("workflow · create buyer %q failed: %v", name, err)
		return nil, err
	}
	c.mu.Lock()
	buyer := c.roster.AddBuyer(created)
	c.mu.Unlock()
	c.logger.Info("workflow · buyer %s created under seller %s", created.ID, seller.ID)
	return buyer, nil
}
