// internal/party/party.go
//
// Domain records for the transaction parties the console works with.
// Shapes mirror what the backend returns from the bulk users query; the
// json tags are the backend field names (mongo-style _id included).

package party

// SupportingDocument is a buyer-scoped upload with no signature workflow.
type SupportingDocument struct {
	Name string `json:"name"`
}

// Document is a seller-scoped disclosure document.
type Document struct {
	Name        string `json:"name"`
	Completed   bool   `json:"completed"`
	SignatureID string `json:"signatureId"`
}

// CounterOffer is a buyer-scoped negotiable document with signature tracking.
type CounterOffer struct {
	Name           string `json:"name"`
	Completed      bool   `json:"completed"`
	SignatureID    string `json:"signatureId"`
	CounterOfferID string `json:"counterOfferId"`
	ExpirationTime string `json:"expirationTime,omitempty"`
}

// Buyer is attached to exactly one seller. Its id is only unique within
// that seller's buyer list.
type Buyer struct {
	ID                  string               `json:"_id"`
	Name                string               `json:"name"`
	CounterOffers       []CounterOffer       `json:"counterOffers"`
	SupportingDocuments []SupportingDocument `json:"supportingDocuments"`
}

// Seller is a listing party. The console holds a local working copy and
// mutates it only after the backend confirms a change.
type Seller struct {
	ID        string     `json:"_id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Address   string     `json:"address,omitempty"`
	County    string     `json:"county,omitempty"`
	Parcel    string     `json:"parcel"`
	Documents []Document `json:"documents"`
	Buyers    []Buyer    `json:"buyers"`
}

// DisplayName renders the seller for list screens.
func (s *Seller) DisplayName() string {
	name := s.FirstName
	if s.LastName != "" {
		if name != "" {
			name += " "
		}
		name += s.LastName
	}
	if name == "" {
		return s.Email
	}
	return name
}

// BuyerByID returns the buyer with the given id, or nil when absent.
func (s *Seller) BuyerByID(id string) *Buyer {
	for i := range s.Buyers {
		if s.Buyers[i].ID == id {
			return &s.Buyers[i]
		}
	}
	return nil
}

// AppendDocuments appends one placeholder document per submitted type code.
// Placeholders carry no signature id until the e-sign flow picks them up.
func (s *Seller) AppendDocuments(codes []string) {
	for _, code := range codes {
		s.Documents = append(s.Documents, Document{Name: code})
	}
}

// RemoveDocument drops every document whose name matches. The backend keys
// removal by name alone, so after a confirmed remove no same-named record
// can survive server-side either.
func (s *Seller) RemoveDocument(name string) {
	kept := s.Documents[:0]
	for _, doc := range s.Documents {
		if doc.Name != name {
			kept = append(kept, doc)
		}
	}
	s.Documents = kept
}

// AppendCounterOffer appends a placeholder counter-offer for a confirmed
// submission.
func (b *Buyer) AppendCounterOffer(code string, expiration string) {
	b.CounterOffers = append(b.CounterOffers, CounterOffer{
		Name:           code,
		ExpirationTime: expiration,
	})
}

// AppendSupportingDocument records a confirmed supporting-document upload.
func (b *Buyer) AppendSupportingDocument(code string) {
	b.SupportingDocuments = append(b.SupportingDocuments, SupportingDocument{Name: code})
}

// RemoveCounterOffer drops every counter-offer whose name matches, same
// duplicate policy as Seller.RemoveDocument. Supporting documents have no
// remove path.
func (b *Buyer) RemoveCounterOffer(name string) {
	kept := b.CounterOffers[:0]
	for _, offer := range b.CounterOffers {
		if offer.Name != name {
			kept = append(kept, offer)
		}
	}
	b.CounterOffers = kept
}
