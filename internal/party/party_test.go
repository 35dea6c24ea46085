package party

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSellers() []Seller {
	return []Seller{
		{
			ID:        "s1",
			FirstName: "Ada",
			LastName:  "Moreno",
			Email:     "ada@example.com",
			Parcel:    "042-110-07",
			Documents: []Document{
				{Name: "SPQ", Completed: true, SignatureID: "sig-1"},
				{Name: "TDS"},
			},
			Buyers: []Buyer{
				{ID: "b1", Name: "First Buyer", CounterOffers: []CounterOffer{{Name: "BCO"}}},
			},
		},
		{ID: "s2", FirstName: "Liu", LastName: "Chen", Email: "liu@example.com", Parcel: "042-110-08"},
	}
}

func TestSelectSellerByID(t *testing.T) {
	roster := NewRoster(testSellers())
	seller := roster.SelectSeller("s2")
	require.NotNil(t, seller)
	assert.Equal(t, "s2", seller.ID)
	assert.Same(t, seller, roster.ActiveSeller())
}

func TestSelectSellerUnknownIDKeepsSelection(t *testing.T) {
	roster := NewRoster(testSellers())
	roster.SelectSeller("s1")
	seller := roster.SelectSeller("nope")
	require.NotNil(t, seller)
	assert.Equal(t, "s1", seller.ID, "unknown id must leave the previous selection in place")
}

func TestSelectSellerClearsBuyer(t *testing.T) {
	roster := NewRoster(testSellers())
	roster.SelectSeller("s1")
	require.NotNil(t, roster.SelectBuyer("b1"))
	roster.SelectSeller("s2")
	assert.Nil(t, roster.ActiveBuyer())
}

func TestSelectBuyerUnknownIDKeepsSelection(t *testing.T) {
	roster := NewRoster(testSellers())
	roster.SelectSeller("s1")
	roster.SelectBuyer("b1")
	buyer := roster.SelectBuyer("missing")
	require.NotNil(t, buyer)
	assert.Equal(t, "b1", buyer.ID)
}

func TestSelectBuyerWithoutSellerIsNoop(t *testing.T) {
	roster := NewRoster(testSellers())
	assert.Nil(t, roster.SelectBuyer("b1"))
}

func TestRemoveDocumentDropsAllMatchingNames(t *testing.T) {
	seller := Seller{Documents: []Document{
		{Name: "SPQ"},
		{Name: "TDS"},
		{Name: "SPQ", Completed: true},
	}}
	seller.RemoveDocument("SPQ")
	require.Len(t, seller.Documents, 1)
	assert.Equal(t, "TDS", seller.Documents[0].Name)
}

func TestRemoveCounterOfferDropsAllMatchingNames(t *testing.T) {
	buyer := Buyer{CounterOffers: []CounterOffer{
		{Name: "BCO"},
		{Name: "RR"},
		{Name: "BCO", Completed: true},
	}}
	buyer.RemoveCounterOffer("BCO")
	require.Len(t, buyer.CounterOffers, 1)
	assert.Equal(t, "RR", buyer.CounterOffers[0].Name)
}

func TestAppendDocumentsCreatesPlaceholders(t *testing.T) {
	seller := Seller{}
	seller.AppendDocuments([]string{"SPQ", "NHD"})
	require.Len(t, seller.Documents, 2)
	for _, doc := range seller.Documents {
		assert.False(t, doc.Completed)
		assert.Empty(t, doc.SignatureID)
	}
}

func TestAddBuyerKeepsBuyerSelectionLive(t *testing.T) {
	roster := NewRoster(testSellers())
	roster.SelectSeller("s1")
	roster.SelectBuyer("b1")
	added := roster.AddBuyer(Buyer{ID: "b2", Name: "Second Buyer"})
	require.NotNil(t, added)
	assert.Equal(t, "b2", added.ID)
	require.NotNil(t, roster.ActiveBuyer())
	assert.Equal(t, "b1", roster.ActiveBuyer().ID)

	// The selection must point into the live buyer list, not a stale copy.
	roster.ActiveBuyer().AppendCounterOffer("RR", "")
	assert.Len(t, roster.ActiveSeller().Buyers[0].CounterOffers, 2)
}

func TestDisplayNameFallsBackToEmail(t *testing.T) {
	s := Seller{Email: "only@example.com"}
	assert.Equal(t, "only@example.com", s.DisplayName())
	s.FirstName = "Ada"
	assert.Equal(t, "Ada", s.DisplayName())
	s.LastName = "Moreno"
	assert.Equal(t, "Ada Moreno", s.DisplayName())
}
