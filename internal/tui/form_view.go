// internal/tui/form_view.go
//
// Rendering for the admin form. The layout is a header, a main panel for
// the current screen, a ledger panel for the active party, the logbook
// tail and a footer line for status and inline errors.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/micasa/micasa-admin/internal/catalog"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
)

// View renders the current state to a string.
func (a *App) View() string {
	var content string
	switch a.state {
	case stateLoading:
		content = fmt.Sprintf("%s Loading sellers...", a.spin.View())
	case stateLoadFailed:
		content = errorStyle.Render(fmt.Sprintf("Load failed: %v", a.loadErr)) +
			hintStyle.Render("\nr → retry    q → quit")
	case stateSellerSelect:
		content = a.sellerMenu.View() + hintStyle.Render("\nEnter → open form    q → quit")
	case stateBuyerSelect:
		content = a.buyerMenu.View() + hintStyle.Render("\nEnter → select    n → new buyer    Esc → back")
	case stateTypeSelect:
		content = a.typeMenu.View() + hintStyle.Render("\nEnter → stage    Esc → back")
	case stateInput:
		content = fmt.Sprintf("%s\n\n%s", a.input.Placeholder, a.input.View()) +
			hintStyle.Render("\nEnter → apply    Esc → cancel")
	case stateProcessing:
		content = fmt.Sprintf("%s Processing submission...", a.spin.View())
	case stateForm:
		content = a.renderComposer()
	}

	sections := []string{headerStyle.Render("⌂ MICASA ADMIN")}

	if a.state == stateForm || a.state == stateProcessing || a.state == stateInput || a.state == stateTypeSelect {
		left := panelStyle.Render(content)
		right := panelStyle.Render(a.renderLedger())
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		sections = append(sections, panelStyle.Render(content))
	}

	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

// renderComposer shows the active party and the staged submission.
func (a *App) renderComposer() string {
	roster := a.workflow.Roster()
	composer := a.workflow.Composer()

	var lines []string
	seller := roster.ActiveSeller()
	lines = append(lines, panelTitleStyle.Render("SUBMISSION"))
	lines = append(lines, fmt.Sprintf("Seller: %s", seller.DisplayName()))
	if buyer := roster.ActiveBuyer(); buyer != nil {
		lines = append(lines, fmt.Sprintf("Buyer:  %s", buyer.Name))
	} else {
		lines = append(lines, dimStyle.Render("Buyer:  none (seller mode)"))
	}
	lines = append(lines, fmt.Sprintf("Mode:   %s", a.workflow.Mode()))
	lines = append(lines, "")

	codes := composer.TypeCodes()
	if len(codes) == 0 {
		lines = append(lines, dimStyle.Render("No document types staged"))
	} else {
		lines = append(lines, fmt.Sprintf("Staged types (%d):", len(codes)))
		for _, code := range codes {
			label := code
			if opt, ok := catalog.Lookup(a.workflow.Mode(), code); ok {
				label = fmt.Sprintf("%s · %s", opt.Code, opt.Label)
			}
			lines = append(lines, "  • "+label)
		}
		if a.workflow.Mode() == catalog.ModeBuyer && len(codes) > 1 {
			lines = append(lines, dimStyle.Render("  buyer submissions send only the first staged type"))
		}
	}

	if attachment := composer.Attachment(); attachment != nil {
		lines = append(lines, fmt.Sprintf("Attachment: %s (%d bytes)", attachment.Name, len(attachment.Data)))
	} else {
		lines = append(lines, dimStyle.Render("Attachment: none"))
	}
	if exp := composer.ExpirationString(); exp != "" {
		lines = append(lines, fmt.Sprintf("Expires: %s", exp))
	}

	hints := "a → stage type    u → unstage    f → attach PDF    x → clear attachment\n" +
		"e → expiration    b → buyers    S → seller mode    d → remove selected\n" +
		"s → submit    Esc → sellers    q → quit"
	return strings.Join(lines, "\n") + hintStyle.Render("\n"+hints)
}

// renderLedger lists the documents already sent for the active party.
func (a *App) renderLedger() string {
	if a.workflow == nil || a.workflow.Roster().ActiveSeller() == nil {
		return dimStyle.Render("No party selected")
	}
	entries := a.workflow.LedgerEntries()
	title := panelTitleStyle.Render(fmt.Sprintf("DOCUMENTS (%d)", len(entries)))
	if len(entries) == 0 {
		return title + "\n" + dimStyle.Render("Nothing sent yet")
	}
	var rows []string
	for i, entry := range entries {
		var status string
		switch {
		case entry.Supporting:
			status = dimStyle.Render("uploaded")
		case entry.Completed:
			status = doneStyle.Render("completed")
		default:
			status = pendingStyle.Render("pending")
		}
		row := fmt.Sprintf("%s  %s", entry.Name, status)
		if i == a.ledgerCursor && a.state == stateForm {
			row = selectedStyle.Render("▸ " + row)
		} else {
			row = "  " + row
		}
		rows = append(rows, row)
	}
	return title + "\n" + strings.Join(rows, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := panelTitleStyle.Render("LOG")
	body := dimStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(head + "\n" + body)
}

func (a *App) renderFooter() string {
	if a.errMsg != "" {
		return errorStyle.Render("✗ " + a.errMsg)
	}
	return dimStyle.Render(a.statusMsg)
}
