// internal/party/roster.go
//
// The roster is the in-memory seller list loaded once at startup plus the
// current selection. Selecting an id that does not exist is a silent no-op;
// the form relies on the previous selection staying put.

package party

// Roster holds the loaded sellers and the active selection.
type Roster struct {
	sellers []Seller

	activeSeller *Seller
	activeBuyer  *Buyer
}

// NewRoster wraps the sellers returned by the bulk load. The roster takes
// ownership of the slice; callers must not mutate it afterwards.
func NewRoster(sellers []Seller) *Roster {
	return &Roster{sellers: sellers}
}

// Sellers returns the loaded sellers in load order.
func (r *Roster) Sellers() []Seller {
	return r.sellers
}

// SelectSeller makes the seller with the given id active and clears any
// buyer selection. Unknown ids leave the selection unchanged.
func (r *Roster) SelectSeller(id string) *Seller {
	for i := range r.sellers {
		if r.sellers[i].ID == id {
			r.activeSeller = &r.sellers[i]
			r.activeBuyer = nil
			return r.activeSeller
		}
	}
	return r.activeSeller
}

// SelectBuyer makes a buyer of the active seller active. Unknown ids, or a
// missing seller selection, leave the selection unchanged.
func (r *Roster) SelectBuyer(id string) *Buyer {
	if r.activeSeller == nil {
		return r.activeBuyer
	}
	if buyer := r.activeSeller.BuyerByID(id); buyer != nil {
		r.activeBuyer = buyer
	}
	return r.activeBuyer
}

// ClearBuyer drops the buyer selection, returning the form to seller mode.
func (r *Roster) ClearBuyer() {
	r.activeBuyer = nil
}

// ActiveSeller returns the current seller selection, or nil.
func (r *Roster) ActiveSeller() *Seller {
	return r.activeSeller
}

// ActiveBuyer returns the current buyer selection, or nil.
func (r *Roster) ActiveBuyer() *Buyer {
	return r.activeBuyer
}

// BuyerOptions lists the active seller's buyers for the picker screen.
func (r *Roster) BuyerOptions() []Buyer {
	if r.activeSeller == nil {
		return nil
	}
	return r.activeSeller.Buyers
}

// AddBuyer appends a newly created buyer to the active seller. No-op
// without a seller selection.
func (r *Roster) AddBuyer(buyer Buyer) *Buyer {
	if r.activeSeller == nil {
		return nil
	}
	r.activeSeller.Buyers = append(r.activeSeller.Buyers, buyer)
	// The append may have moved the backing array; re-resolve the buyer
	// selection so it keeps pointing at live storage.
	if r.activeBuyer != nil {
		r.activeBuyer = r.activeSeller.BuyerByID(r.activeBuyer.ID)
	}
	return &r.activeSeller.Buyers[len(r.activeSeller.Buyers)-1]
}
