package components

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/export"
	"github.com/devnullvoid/shoptui/internal/forms"
	"github.com/devnullvoid/shoptui/internal/pages"
	"github.com/devnullvoid/shoptui/internal/ui/theme"
	"github.com/devnullvoid/shoptui/pkg/api"
)

// showMessage displays a titled message to the user.
func (a *App) showMessage(title, message string) {
	if a.lastFocus == nil {
		a.lastFocus = a.GetFocus()
	}

	dialog, focus := newDialog(title, message, []string{"OK"}, func(string) {
		a.removePageIfPresent(pageMessage)
		a.restoreFocus()
	})

	a.pages.AddPage(pageMessage, dialog, true, true)
	a.SetFocus(focus)
}

// confirm asks a yes/no question and runs onConfirm on yes.
func (a *App) confirm(message string, onConfirm func()) {
	if a.lastFocus == nil {
		a.lastFocus = a.GetFocus()
	}

	dialog, focus := newDialog("Confirm", message, []string{"Yes", "No"}, func(label string) {
		a.removePageIfPresent(pageConfirm)
		a.restoreFocus()

		if label == "Yes" {
			onConfirm()
		}
	})

	a.pages.AddPage(pageConfirm, dialog, true, true)
	a.SetFocus(focus)
}

// showForm opens form as a centered dialog. Escape closes it.
func (a *App) showForm(title string, form *tview.Form, height int) {
	if a.lastFocus == nil {
		a.lastFocus = a.GetFocus()
	}

	form.SetBorder(true).SetTitle(" " + title + " ").SetTitleColor(theme.Colors.Title)
	form.SetButtonsAlign(tview.AlignCenter)
	form.SetCancelFunc(a.closeForm)

	a.pages.AddPage(pageForm, centered(form, 64, height), true, true)
	a.SetFocus(form)
}

func (a *App) closeForm() {
	a.removePageIfPresent(pageForm)
	a.restoreFocus()
}

// closeModals removes every dialog and menu.
func (a *App) closeModals() {
	for _, name := range []string{pageMenu, pageForm, pageMessage, pageConfirm, pageHelp} {
		a.removePageIfPresent(name)
	}

	a.isMenuOpen = false
	a.lastFocus = nil
}

func inputText(form *tview.Form, label string) string {
	if field, ok := form.GetFormItemByLabel(label).(*tview.InputField); ok {
		return field.GetText()
	}

	return ""
}

func dropDownValue(form *tview.Form, label string) string {
	if dd, ok := form.GetFormItemByLabel(label).(*tview.DropDown); ok {
		_, value := dd.GetCurrentOption()
		return value
	}

	return ""
}

// showStatusForm sets the status of id, or of the selection when id is
// empty.
func (a *App) showStatusForm(id string) {
	v := a.currentView()
	resource := v.Resource()
	choices := pages.StatusChoices(resource)

	form := tview.NewForm().
		AddDropDown("Status", choices, 0, nil).
		AddInputField("Notes", "", 40, nil, nil)

	form.AddButton("Apply", func() {
		update, err := forms.ValidateStatus(forms.StatusInput{
			Resource: resource,
			Status:   dropDownValue(form, "Status"),
			Notes:    inputText(form, "Notes"),
		})
		if err != nil {
			a.header.ShowError(err.Error())
			return
		}

		a.closeForm()
		a.runAction(id, pages.StatusAction(a.client, resource, update.Status, update.Notes))
	})
	form.AddButton("Cancel", a.closeForm)

	title := "Set status"
	if id != "" {
		title += " of " + id
	}

	a.showForm(title, form, 9)
}

// showDateRangeForm restricts the page to items created within a day range.
func (a *App) showDateRangeForm() {
	v := a.currentView()

	form := tview.NewForm().
		AddInputField("From", "", 12, nil, nil).
		AddInputField("To", "", 12, nil, nil)

	form.AddButton("Apply", func() {
		start, end, err := forms.ParseDateRange(inputText(form, "From"), inputText(form, "To"), time.Local)
		if err != nil {
			a.header.ShowError(err.Error())
			return
		}

		a.closeForm()
		v.SetDateRange(start, end)
		a.updateFooter()
	})
	form.AddButton("Cancel", a.closeForm)

	a.showForm("Date range (YYYY-MM-DD)", form, 9)
}

// showExportForm writes the page's collection to a file.
func (a *App) showExportForm() {
	v := a.currentView()
	formats := []string{string(export.FormatCSV), string(export.FormatJSON)}
	resource := string(v.Resource())
	now := time.Now()

	form := tview.NewForm()
	form.AddDropDown("Format", formats, 0, func(option string, _ int) {
		if field, ok := form.GetFormItemByLabel("File").(*tview.InputField); ok {
			field.SetText(export.Filename(resource, export.Format(option), now))
		}
	})
	form.AddInputField("File", export.Filename(resource, export.FormatCSV, now), 40, nil, nil)
	form.AddCheckbox("Filtered only", v.Status().Filtered, nil)

	form.AddButton("Export", func() {
		format, err := export.ParseFormat(dropDownValue(form, "Format"))
		if err != nil {
			a.header.ShowError(err.Error())
			return
		}

		path := strings.TrimSpace(inputText(form, "File"))
		if path == "" {
			a.header.ShowError("File name is required")
			return
		}

		filtered := false
		if cb, ok := form.GetFormItemByLabel("Filtered only").(*tview.Checkbox); ok {
			filtered = cb.IsChecked()
		}

		a.closeForm()
		a.exportTo(v, path, format, filtered)
	})
	form.AddButton("Cancel", a.closeForm)

	a.showForm("Export "+v.Title(), form, 11)
}

func (a *App) exportTo(v pageView, path string, format export.Format, filtered bool) {
	go func() {
		var n int
		err := export.ToFile(path, func(w io.Writer) error {
			var err error
			n, err = v.Export(w, format, filtered)
			return err
		})

		a.QueueUpdateDraw(func() {
			if err != nil {
				a.logger.Error("Export of %s failed: %v", v.Resource(), err)
				a.header.ShowError("Export failed: " + err.Error())

				return
			}

			a.header.ShowSuccess(fmt.Sprintf("Exported %d %s to %s", n, v.Resource(), path))
		})
	}()
}

// printInvoice renders the order under the cursor as an HTML invoice.
func (a *App) printInvoice() {
	v := a.currentView()
	if v.Resource() != api.ResourceOrders {
		a.header.ShowWarning("Invoices are available on the Orders page")
		return
	}

	id := v.CurrentID()
	if id == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.config.GetTimeout())
		defer cancel()

		order, err := a.client.GetOrder(ctx, id)

		var path string
		if err == nil {
			path = export.InvoiceNumber(order) + ".html"
			err = export.ToFile(path, func(w io.Writer) error {
				return export.Invoice(w, export.DefaultShop, order, time.Now())
			})
		}

		if api.IsUnauthorized(err) {
			a.handleUnauthorized(err)
		}

		a.QueueUpdateDraw(func() {
			if err != nil {
				a.header.ShowError(fmt.Sprintf("Invoice for %s failed: %v", id, err))
				return
			}

			a.header.ShowSuccess("Invoice written to " + path)
		})
	}()
}

// copyCurrentID puts the id of the row under the cursor on the clipboard.
func (a *App) copyCurrentID() {
	id := a.currentView().CurrentID()
	if id == "" {
		return
	}

	if err := clipboard.WriteAll(id); err != nil {
		a.logger.Debug("Clipboard write failed: %v", err)
		a.header.ShowError("Clipboard unavailable")

		return
	}

	a.header.ShowSuccess("Copied " + id)
}

// showAdminForm creates a back-office account.
func (a *App) showAdminForm() {
	if a.currentView().Resource() != api.ResourceAdmins {
		a.header.ShowWarning("Admins are created on the Admins page")
		return
	}

	form := tview.NewForm().
		AddInputField("Name", "", 40, nil, nil).
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddPasswordField("Confirm", "", 40, '*', nil).
		AddDropDown("Role", api.AdminRoles, len(api.AdminRoles)-1, nil)

	form.AddButton("Create", func() {
		req, err := forms.ValidateAdmin(forms.AdminInput{
			Name:     inputText(form, "Name"),
			Email:    inputText(form, "Email"),
			Password: inputText(form, "Password"),
			Confirm:  inputText(form, "Confirm"),
			Role:     dropDownValue(form, "Role"),
		})
		if err != nil {
			a.header.ShowError(err.Error())
			return
		}

		a.closeForm()
		a.createAdmin(req)
	})
	form.AddButton("Cancel", a.closeForm)
	form.SetFieldBackgroundColor(theme.Colors.Contrast)

	a.showForm("New admin", form, 15)
}

func (a *App) createAdmin(req api.CreateAdminRequest) {
	v := a.currentView()

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.config.GetTimeout())
		defer cancel()

		admin, err := a.client.CreateAdmin(ctx, req)
		if err != nil {
			a.logger.Error("Create admin %s failed: %v", req.Email, err)

			if api.IsUnauthorized(err) {
				a.handleUnauthorized(err)
			}

			a.QueueUpdateDraw(func() {
				a.header.ShowError("Create admin failed: " + err.Error())
			})

			return
		}

		a.QueueUpdateDraw(func() {
			a.header.ShowSuccess("Created admin " + admin.Email)
		})

		_ = v.Refresh(a.ctx)
	}()
}
