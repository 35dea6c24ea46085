// internal/tui/app.go
//
// The admin form. It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the App struct below holds all UI state
// 2. Update: transitions state based on messages
// 3. View: renders state to a string
//
// Backend work never blocks the loop; it runs in tea commands that report
// back through the typed messages defined here. While a submission is in
// flight the form is replaced by a spinner, which is what guarantees only
// one pipeline run at a time from the operator's side.

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/micasa/micasa-admin/internal/api"
	"github.com/micasa/micasa-admin/internal/catalog"
	"github.com/micasa/micasa-admin/internal/logbook"
	"github.com/micasa/micasa-admin/internal/party"
	"github.com/micasa/micasa-admin/internal/workflow"
)

// appState represents which "screen" we're on
type appState int

const (
	stateLoading      appState = iota // bulk users query in flight
	stateLoadFailed                   // load failed, offer retry
	stateSellerSelect                 // pick the active seller
	stateBuyerSelect                  // pick a buyer (or stay in seller mode)
	stateForm                         // ledger + composer for the active party
	stateTypeSelect                   // pick a document type to stage
	stateInput                        // one-line input (file path, expiration, buyer name)
	stateProcessing                   // submission pipeline running
)

// inputKind says what the shared text input is currently collecting.
type inputKind int

const (
	inputNone inputKind = iota
	inputFilePath
	inputExpiration
	inputBuyerName
)

// Backend is what the app needs from the API client.
type Backend interface {
	workflow.Backend
	LoadSellers(ctx context.Context) ([]party.Seller, error)
}

type rosterLoadedMsg struct {
	sellers []party.Seller
	err     error
}

type submitDoneMsg struct {
	err error
}

type removeDoneMsg struct {
	name string
	err  error
}

type buyerCreatedMsg struct {
	buyer *party.Buyer
	err   error
}

// sellerItem implements list.Item for the seller picker.
type sellerItem struct {
	seller party.Seller
}

func (i sellerItem) Title() string { return i.seller.DisplayName() }
func (i sellerItem) Description() string {
	return fmt.Sprintf("%s · parcel %s · %d document(s)", i.seller.Email, i.seller.Parcel, len(i.seller.Documents))
}
func (i sellerItem) FilterValue() string { return i.seller.DisplayName() }

// buyerItem implements list.Item for the buyer picker.
type buyerItem struct {
	buyer party.Buyer
}

func (i buyerItem) Title() string { return i.buyer.Name }
func (i buyerItem) Description() string {
	return fmt.Sprintf("%d counter-offer(s) · %d supporting document(s)",
		len(i.buyer.CounterOffers), len(i.buyer.SupportingDocuments))
}
func (i buyerItem) FilterValue() string { return i.buyer.Name }

// typeItem implements list.Item for the document-type picker.
type typeItem struct {
	option catalog.Option
}

func (i typeItem) Title() string { return i.option.Code }
func (i typeItem) Description() string {
	desc := i.option.Label
	if catalog.IsSupporting(i.option.Code) {
		desc += " · supporting document"
	}
	return desc
}
func (i typeItem) FilterValue() string { return i.option.Code + " " + i.option.Label }

// App is the main application model.
type App struct {
	state    appState
	backend  Backend
	logbook  *logbook.Logbook
	workflow *workflow.Controller

	sellerMenu list.Model
	buyerMenu  list.Model
	typeMenu   list.Model
	input      textinput.Model
	inputMode  inputKind
	spin       spinner.Model

	ledgerCursor int
	statusMsg    string
	errMsg       string
	loadErr      error

	width  int
	height int
}

// NewApp creates the application model. The roster is loaded on Init.
func NewApp(backend Backend, book *logbook.Logbook) *App {
	sellerMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	sellerMenu.Title = "Select Seller"
	sellerMenu.SetShowStatusBar(false)
	sellerMenu.SetFilteringEnabled(false)

	buyerMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	buyerMenu.Title = "Select Buyer"
	buyerMenu.SetShowStatusBar(false)
	buyerMenu.SetFilteringEnabled(false)

	typeMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	typeMenu.Title = "Stage Document Type"
	typeMenu.SetShowStatusBar(false)
	typeMenu.SetFilteringEnabled(false)

	input := textinput.New()
	input.CharLimit = 256

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &App{
		state:      stateLoading,
		backend:    backend,
		logbook:    book,
		sellerMenu: sellerMenu,
		buyerMenu:  buyerMenu,
		typeMenu:   typeMenu,
		input:      input,
		spin:       spin,
	}
}

// Init kicks off the bulk load.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.loadRoster())
}

func (a *App) loadRoster() tea.Cmd {
	return func() tea.Msg {
		sellers, err := a.backend.LoadSellers(context.Background())
		return rosterLoadedMsg{sellers: sellers, err: err}
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		menuWidth := max(20, msg.Width-6)
		menuHeight := max(10, msg.Height-12)
		a.sellerMenu.SetSize(menuWidth, menuHeight)
		a.buyerMenu.SetSize(menuWidth, menuHeight)
		a.typeMenu.SetSize(menuWidth, menuHeight)
		return a, nil

	case spinner.TickMsg:
		if a.state == stateLoading || a.state == stateProcessing {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		return a, nil

	case rosterLoadedMsg:
		if msg.err != nil {
			a.state = stateLoadFailed
			a.loadErr = msg.err
			a.logInfo("Load failed: %v", msg.err)
			return a, nil
		}
		a.workflow = workflow.NewController(party.NewRoster(msg.sellers), a.backend, a.logbook)
		a.sellerMenu.SetItems(sellerItems(msg.sellers))
		a.state = stateSellerSelect
		a.statusMsg = fmt.Sprintf("Loaded %d seller(s)", len(msg.sellers))
		return a, nil

	case submitDoneMsg:
		a.state = stateForm
		if msg.err != nil {
			// Corrected policy: the composer stays populated so the
			// operator can fix and retry without re-entering anything.
			a.errMsg = describeError(msg.err)
			return a, nil
		}
		a.errMsg = ""
		a.statusMsg = "Submitted"
		a.clampLedgerCursor()
		return a, nil

	case removeDoneMsg:
		if msg.err != nil {
			a.errMsg = describeError(msg.err)
			return a, nil
		}
		a.errMsg = ""
		a.statusMsg = fmt.Sprintf("Removed %s", msg.name)
		a.clampLedgerCursor()
		return a, nil

	case buyerCreatedMsg:
		if msg.err != nil {
			a.errMsg = describeError(msg.err)
			return a, nil
		}
		a.errMsg = ""
		a.statusMsg = fmt.Sprintf("Buyer %s created", msg.buyer.Name)
		a.buyerMenu.SetItems(buyerItems(a.workflow.Roster().BuyerOptions()))
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateFocused(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if a.state == stateProcessing || a.state == stateLoading {
		// Re-entrancy guard: nothing but quit while the pipeline runs.
		return a, nil
	}

	switch a.state {
	case stateLoadFailed:
		switch key {
		case "r":
			a.state = stateLoading
			return a, tea.Batch(a.spin.Tick, a.loadRoster())
		case "q", "esc":
			return a, tea.Quit
		}
		return a, nil

	case stateSellerSelect:
		switch key {
		case "q":
			return a, tea.Quit
		case "enter":
			item, ok := a.sellerMenu.SelectedItem().(sellerItem)
			if !ok {
				return a, nil
			}
			a.workflow.SelectSeller(item.seller.ID)
			a.ledgerCursor = 0
			a.errMsg = ""
			a.state = stateForm
			return a, nil
		}

	case stateBuyerSelect:
		switch key {
		case "esc":
			a.state = stateForm
			return a, nil
		case "n":
			return a.openInput(inputBuyerName, "Buyer name"), nil
		case "enter":
			item, ok := a.buyerMenu.SelectedItem().(buyerItem)
			if !ok {
				return a, nil
			}
			a.workflow.SelectBuyer(item.buyer.ID)
			a.ledgerCursor = 0
			a.errMsg = ""
			a.state = stateForm
			return a, nil
		}

	case stateTypeSelect:
		switch key {
		case "esc":
			a.state = stateForm
			return a, nil
		case "enter":
			item, ok := a.typeMenu.SelectedItem().(typeItem)
			if !ok {
				return a, nil
			}
			if err := a.workflow.Composer().StageType(item.option.Code); err != nil {
				a.errMsg = describeError(err)
			} else {
				a.errMsg = ""
				a.statusMsg = fmt.Sprintf("Staged %s", item.option.Code)
			}
			a.state = stateForm
			return a, nil
		}

	case stateInput:
		switch key {
		case "esc":
			a.input.Blur()
			a.state = stateForm
			return a, nil
		case "enter":
			return a.commitInput()
		}

	case stateForm:
		return a.handleFormKey(key)
	}

	return a.updateFocused(msg)
}

// handleFormKey drives the composer and ledger from the form screen.
func (a *App) handleFormKey(key string) (tea.Model, tea.Cmd) {
	entries := a.workflow.LedgerEntries()

	switch key {
	case "q":
		return a, tea.Quit
	case "esc":
		a.workflow.ClearBuyer()
		a.state = stateSellerSelect
		a.errMsg = ""
		return a, nil
	case "up", "k":
		if a.ledgerCursor > 0 {
			a.ledgerCursor--
		}
	case "down", "j":
		if a.ledgerCursor < len(entries)-1 {
			a.ledgerCursor++
		}
	case "a":
		a.typeMenu.SetItems(typeItems(a.workflow.Mode()))
		a.typeMenu.Title = fmt.Sprintf("Stage Document Type (%s)", a.workflow.Mode())
		a.state = stateTypeSelect
		return a, nil
	case "u":
		codes := a.workflow.Composer().TypeCodes()
		if len(codes) > 0 {
			a.workflow.Composer().Unstage(len(codes) - 1)
			a.statusMsg = "Unstaged last document type"
		}
	case "f":
		return a.openInput(inputFilePath, "Path to PDF"), nil
	case "x":
		a.workflow.Composer().ClearAttachment()
		a.statusMsg = "Attachment cleared"
	case "e":
		return a.openInput(inputExpiration, "Expiration (YYYY-MM-DD)"), nil
	case "b":
		if a.workflow.Roster().ActiveSeller() == nil {
			return a, nil
		}
		a.buyerMenu.SetItems(buyerItems(a.workflow.Roster().BuyerOptions()))
		a.state = stateBuyerSelect
		return a, nil
	case "S":
		a.workflow.ClearBuyer()
		a.ledgerCursor = 0
		a.statusMsg = "Back to seller mode"
	case "d":
		if len(entries) == 0 {
			return a, nil
		}
		if a.ledgerCursor >= len(entries) {
			a.ledgerCursor = len(entries) - 1
		}
		entry := entries[a.ledgerCursor]
		if entry.Supporting {
			a.errMsg = "supporting documents cannot be removed"
			return a, nil
		}
		return a, a.removeDocument(entry.Name)
	case "s", "enter":
		return a.startSubmit()
	}
	return a, nil
}

func (a *App) openInput(kind inputKind, prompt string) *App {
	a.inputMode = kind
	a.input.Placeholder = prompt
	a.input.SetValue("")
	a.input.Focus()
	a.state = stateInput
	return a
}

// commitInput applies the shared text input according to its kind.
func (a *App) commitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(a.input.Value())
	a.input.Blur()
	a.state = stateForm

	switch a.inputMode {
	case inputFilePath:
		if value == "" {
			return a, nil
		}
		data, err := os.ReadFile(value)
		if err != nil {
			a.errMsg = fmt.Sprintf("read %s: %v", value, err)
			return a, nil
		}
		if err := a.workflow.Composer().Attach(value, data); err != nil {
			// Rejected file: the previous attachment, if any, stays.
			a.errMsg = describeError(err)
			return a, nil
		}
		a.errMsg = ""
		a.statusMsg = fmt.Sprintf("Attached %s", value)

	case inputExpiration:
		if value == "" {
			a.workflow.Composer().ClearExpiration()
			a.statusMsg = "Expiration cleared"
			return a, nil
		}
		t, err := parseExpiration(value)
		if err != nil {
			a.errMsg = err.Error()
			return a, nil
		}
		a.workflow.Composer().SetExpiration(t)
		a.errMsg = ""
		a.statusMsg = fmt.Sprintf("Expires %s", t.Format("2006-01-02"))

	case inputBuyerName:
		if value == "" {
			return a, nil
		}
		a.state = stateBuyerSelect
		return a, a.createBuyer(value)
	}
	return a, nil
}

func (a *App) startSubmit() (tea.Model, tea.Cmd) {
	a.state = stateProcessing
	a.errMsg = ""
	a.logInfo("Submitting %d staged type(s)", len(a.workflow.Composer().TypeCodes()))
	return a, tea.Batch(a.spin.Tick, func() tea.Msg {
		return submitDoneMsg{err: a.workflow.Submit(context.Background())}
	})
}

func (a *App) removeDocument(name string) tea.Cmd {
	return func() tea.Msg {
		return removeDoneMsg{name: name, err: a.workflow.Remove(context.Background(), name)}
	}
}

func (a *App) createBuyer(name string) tea.Cmd {
	return func() tea.Msg {
		buyer, err := a.workflow.CreateBuyer(context.Background(), name)
		return buyerCreatedMsg{buyer: buyer, err: err}
	}
}

// updateFocused forwards messages to whichever component has focus.
func (a *App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.state {
	case stateSellerSelect:
		a.sellerMenu, cmd = a.sellerMenu.Update(msg)
	case stateBuyerSelect:
		a.buyerMenu, cmd = a.buyerMenu.Update(msg)
	case stateTypeSelect:
		a.typeMenu, cmd = a.typeMenu.Update(msg)
	case stateInput:
		a.input, cmd = a.input.Update(msg)
	}
	return a, cmd
}

func (a *App) clampLedgerCursor() {
	entries := a.workflow.LedgerEntries()
	if a.ledgerCursor >= len(entries) {
		a.ledgerCursor = len(entries) - 1
	}
	if a.ledgerCursor < 0 {
		a.ledgerCursor = 0
	}
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func sellerItems(sellers []party.Seller) []list.Item {
	items := make([]list.Item, len(sellers))
	for i, s := range sellers {
		items[i] = sellerItem{seller: s}
	}
	return items
}

func buyerItems(buyers []party.Buyer) []list.Item {
	items := make([]list.Item, len(buyers))
	for i, b := range buyers {
		items[i] = buyerItem{buyer: b}
	}
	return items
}

func typeItems(mode catalog.Mode) []list.Item {
	options := catalog.Options(mode)
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = typeItem{option: opt}
	}
	return items
}

// describeError keeps backend failures readable on one footer line.
func describeError(err error) string {
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var me *api.MutationError
	if errors.As(err, &me) {
		return fmt.Sprintf("server rejected: %s", strings.Join(me.Messages, "; "))
	}
	var ue *api.UploadError
	if errors.As(err, &ue) {
		return fmt.Sprintf("upload failed: %v", ue.Err)
	}
	var ne *api.NetworkError
	if errors.As(err, &ne) {
		return fmt.Sprintf("network failure: %v", ne)
	}
	return err.Error()
}

// parseExpiration accepts a date or a full RFC3339 timestamp.
func parseExpiration(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("expiration must be YYYY-MM-DD or RFC3339, got %q", value)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
