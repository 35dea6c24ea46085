package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micasa/micasa-admin/internal/api"
	"github.com/micasa/micasa-admin/internal/party"
)

type supportingCall struct {
	BuyerID string
	PDFURL  string
	Title   string
}

// fakeBackend records every call and fails where told to.
type fakeBackend struct {
	mu sync.Mutex

	uploadURL  string
	uploadErr  error
	uploadGate chan struct{}
	uploads    []string

	addDocErr error
	addDocs   []api.AddDocumentInput

	counterErr    error
	counterOffers []api.AddCounterOfferInput

	supportingErr error
	supporting    []supportingCall

	removeSellerErr error
	removedSeller   []string

	removeBuyerErr error
	removedBuyer   []string

	createBuyerErr error
	createdBuyers  []string
}

func (f *fakeBackend) Upload(_ context.Context, filename string, _ []byte) (string, error) {
	if f.uploadGate != nil {
		<-f.uploadGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, filename)
	return f.uploadURL, nil
}

func (f *fakeBackend) AddDocument(_ context.Context, in api.AddDocumentInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addDocErr != nil {
		return f.addDocErr
	}
	f.addDocs = append(f.addDocs, in)
	return nil
}

func (f *fakeBackend) AddCounterOffer(_ context.Context, in api.AddCounterOfferInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counterErr != nil {
		return f.counterErr
	}
	f.counterOffers = append(f.counterOffers, in)
	return nil
}

func (f *fakeBackend) AddSupportingDocument(_ context.Context, buyerID, pdfURL, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.supportingErr != nil {
		return f.supportingErr
	}
	f.supporting = append(f.supporting, supportingCall{BuyerID: buyerID, PDFURL: pdfURL, Title: title})
	return nil
}

func (f *fakeBackend) RemoveSellerDocument(_ context.Context, _, documentName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeSellerErr != nil {
		return f.removeSellerErr
	}
	f.removedSeller = append(f.removedSeller, documentName)
	return nil
}

func (f *fakeBackend) RemoveCounterOffer(_ context.Context, _, documentName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeBuyerErr != nil {
		return f.removeBuyerErr
	}
	f.removedBuyer = append(f.removedBuyer, documentName)
	return nil
}

func (f *fakeBackend) CreateBuyer(_ context.Context, buyerName, _ string) (party.Buyer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createBuyerErr != nil {
		return party.Buyer{}, f.createBuyerErr
	}
	f.createdBuyers = append(f.createdBuyers, buyerName)
	return party.Buyer{ID: "b-new", Name: buyerName}, nil
}

func newTestController(backend Backend) *Controller {
	sellers := []party.Seller{
		{
			ID:        "s1",
			FirstName: "Ada",
			LastName:  "Moreno",
			Address:   "12 Elm St",
			County:    "Alameda",
			Parcel:    "042-110-07",
			Buyers: []party.Buyer{
				{ID: "b1", Name: "First Buyer",
					CounterOffers:       []party.CounterOffer{{Name: "BCO"}},
					SupportingDocuments: []party.SupportingDocument{{Name: "EMD"}},
				},
			},
		},
	}
	return NewController(party.NewRoster(sellers), backend, nil)
}

func TestSubmitSellerDocumentWithoutFile(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	require.NoError(t, ctrl.Composer().StageType("SPQ"))

	require.NoError(t, ctrl.Submit(context.Background()))

	require.Len(t, backend.addDocs, 1)
	call := backend.addDocs[0]
	assert.Equal(t, "s1", call.UserID)
	assert.Equal(t, []string{"SPQ"}, call.Documents)
	assert.Equal(t, "", call.PDFURL)
	assert.Equal(t, "12 Elm St", call.Address)
	assert.Equal(t, "042-110-07", call.Parcel)
	assert.Empty(t, backend.uploads, "no attachment means no upload call")

	docs := ctrl.Roster().ActiveSeller().Documents
	require.Len(t, docs, 1)
	assert.Equal(t, party.Document{Name: "SPQ", Completed: false, SignatureID: ""}, docs[0])

	assert.Empty(t, ctrl.Composer().TypeCodes(), "composer resets after a confirmed submit")
}

func TestSubmitSupportingDocumentUploadsFirst(t *testing.T) {
	backend := &fakeBackend{uploadURL: "https://cdn.example.com/doc.pdf"}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	ctrl.SelectBuyer("b1")
	require.NoError(t, ctrl.Composer().StageType("PDPF"))
	require.NoError(t, ctrl.Composer().Attach("funds.pdf", pdfBytes))

	require.NoError(t, ctrl.Submit(context.Background()))

	require.Len(t, backend.uploads, 1)
	require.Len(t, backend.supporting, 1)
	assert.Equal(t, supportingCall{
		BuyerID: "b1",
		PDFURL:  "https://cdn.example.com/doc.pdf",
		Title:   "PDPF",
	}, backend.supporting[0])
	assert.Empty(t, backend.counterOffers, "supporting types must never hit addCounterOffer")

	buyer := ctrl.Roster().ActiveBuyer()
	require.Len(t, buyer.SupportingDocuments, 2)
	assert.Equal(t, "PDPF", buyer.SupportingDocuments[1].Name)
}

func TestSubmitCounterOfferUsesOnlyFirstStagedType(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	ctrl.SelectBuyer("b1")
	require.NoError(t, ctrl.Composer().StageType("BCO"))
	require.NoError(t, ctrl.Composer().StageType("RR"))
	ctrl.Composer().SetExpiration(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, ctrl.Submit(context.Background()))

	require.Len(t, backend.counterOffers, 1)
	call := backend.counterOffers[0]
	assert.Equal(t, "b1", call.BuyerID)
	assert.Equal(t, "s1", call.SellerID)
	assert.Equal(t, "BCO", call.Title, "buyer submissions send only the first staged type")
	assert.Equal(t, "2026-09-15T00:00:00Z", call.ExpirationTime)

	buyer := ctrl.Roster().ActiveBuyer()
	require.Len(t, buyer.CounterOffers, 2)
	assert.Equal(t, "BCO", buyer.CounterOffers[1].Name)
}

func TestSubmitWithNothingStagedIsRejected(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")

	err := ctrl.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Empty(t, backend.addDocs)
}

func TestSubmitWithoutSellerIsRejected(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(backend)

	err := ctrl.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
}

func TestSubmitFailureKeepsStagedState(t *testing.T) {
	backend := &fakeBackend{addDocErr: &api.MutationError{Op: "addDocument", Messages: []string{"nope"}}}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	require.NoError(t, ctrl.Composer().StageType("SPQ"))
	require.NoError(t, ctrl.Composer().Attach("spq.pdf", pdfBytes))

	err := ctrl.Submit(context.Background())
	var me *api.MutationError
	require.ErrorAs(t, err, &me)

	assert.Equal(t, []string{"SPQ"}, ctrl.Composer().TypeCodes(), "staged types survive a failed submit")
	assert.NotNil(t, ctrl.Composer().Attachment(), "attachment survives a failed submit")
	assert.Empty(t, ctrl.Roster().ActiveSeller().Documents, "no optimistic append without confirmation")
	assert.Equal(t, PhaseIdle, ctrl.Phase())
}

func TestSubmitUploadFailureNeverReachesMutation(t *testing.T) {
	backend := &fakeBackend{uploadErr: &api.UploadError{Err: assert.AnError}}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	require.NoError(t, ctrl.Composer().StageType("SPQ"))
	require.NoError(t, ctrl.Composer().Attach("spq.pdf", pdfBytes))

	err := ctrl.Submit(context.Background())
	var ue *api.UploadError
	require.ErrorAs(t, err, &ue)
	assert.Empty(t, backend.addDocs, "mutation must not run after a failed upload")
	assert.Equal(t, []string{"SPQ"}, ctrl.Composer().TypeCodes())
}

func TestSubmitReentrancyGuard(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeBackend{uploadURL: "https://cdn.example.com/doc.pdf", uploadGate: gate}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	require.NoError(t, ctrl.Composer().StageType("SPQ"))
	require.NoError(t, ctrl.Composer().Attach("spq.pdf", pdfBytes))

	done := make(chan error, 1)
	go func() { done <- ctrl.Submit(context.Background()) }()

	// Wait for the pipeline to enter Uploading before poking it again.
	deadline := time.After(2 * time.Second)
	for ctrl.Phase() != PhaseUploading {
		select {
		case <-deadline:
			t.Fatal("pipeline never reached Uploading")
		case <-time.After(time.Millisecond):
		}
	}

	assert.ErrorIs(t, ctrl.Submit(context.Background()), ErrBusy)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseIdle, ctrl.Phase())
}

func TestRemoveSellerDocumentOnlyAfterConfirmation(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	seller := ctrl.Roster().ActiveSeller()
	seller.Documents = []party.Document{{Name: "SPQ"}, {Name: "SPQ"}, {Name: "TDS"}}

	require.NoError(t, ctrl.Remove(context.Background(), "SPQ"))
	assert.Equal(t, []string{"SPQ"}, backend.removedSeller)

	entries := ctrl.LedgerEntries()
	require.Len(t, entries, 1, "duplicate names are all removed together")
	assert.Equal(t, "TDS", entries[0].Name)
}

func TestRemoveFailureLeavesLedgerUnchanged(t *testing.T) {
	backend := &fakeBackend{removeSellerErr: &api.MutationError{Op: "removeDocument"}}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	ctrl.Roster().ActiveSeller().Documents = []party.Document{{Name: "SPQ"}}

	err := ctrl.Remove(context.Background(), "SPQ")
	var me *api.MutationError
	require.ErrorAs(t, err, &me)
	require.Len(t, ctrl.LedgerEntries(), 1, "no local removal without server confirmation")
}

func TestRemoveCounterOfferInBuyerMode(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	ctrl.SelectBuyer("b1")

	require.NoError(t, ctrl.Remove(context.Background(), "BCO"))
	assert.Equal(t, []string{"BCO"}, backend.removedBuyer)
	assert.Empty(t, backend.removedSeller)
	assert.Empty(t, ctrl.Roster().ActiveBuyer().CounterOffers)
}

func TestRemoveSupportingDocumentIsRejected(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")
	ctrl.SelectBuyer("b1")

	err := ctrl.Remove(context.Background(), "EMD")
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Empty(t, backend.removedBuyer)
	require.Len(t, ctrl.Roster().ActiveBuyer().SupportingDocuments, 1)
}

func TestCreateBuyerAppendsToRoster(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")

	buyer, err := ctrl.CreateBuyer(context.Background(), "Second Buyer")
	require.NoError(t, err)
	assert.Equal(t, "b-new", buyer.ID)
	assert.Len(t, ctrl.Roster().BuyerOptions(), 2)
}

func TestCreateBuyerFailureLeavesRosterUnchanged(t *testing.T) {
	backend := &fakeBackend{createBuyerErr: &api.NetworkError{Op: "createBuyer", Err: assert.AnError}}
	ctrl := newTestController(backend)
	ctrl.SelectSeller("s1")

	_, err := ctrl.CreateBuyer(context.Background(), "Second Buyer")
	var ne *api.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Len(t, ctrl.Roster().BuyerOptions(), 1)
}

func TestLedgerEntriesBuyerModeOrdersOffersThenSupporting(t *testing.T) {
	ctrl := newTestController(&fakeBackend{})
	ctrl.SelectSeller("s1")
	ctrl.SelectBuyer("b1")

	entries := ctrl.LedgerEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "BCO", entries[0].Name)
	assert.False(t, entries[0].Supporting)
	assert.Equal(t, "EMD", entries[1].Name)
	assert.True(t, entries[1].Supporting)
}

func TestModeFollowsSelection(t *testing.T) {
	ctrl := newTestController(&fakeBackend{})
	ctrl.SelectSeller("s1")
	assert.Equal(t, "seller", ctrl.Mode().String())
	ctrl.SelectBuyer("b1")
	assert.Equal(t, "buyer", ctrl.Mode().String())
	ctrl.ClearBuyer()
	assert.Equal(t, "seller", ctrl.Mode().String())
}
