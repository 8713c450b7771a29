package components

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/forms"
	"github.com/devnullvoid/shoptui/internal/ui/theme"
)

const (
	fieldEmail    = "Email"
	fieldPassword = "Password"
)

// LoginForm is the sign-in screen.
type LoginForm struct {
	*tview.Flex

	app     *App
	form    *tview.Form
	message *tview.TextView
	busy    bool
}

// NewLoginForm creates the sign-in screen for app.
func NewLoginForm(app *App) *LoginForm {
	lf := &LoginForm{app: app}

	lf.message = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)

	lf.form = tview.NewForm().
		AddInputField(fieldEmail, "", 40, nil, nil).
		AddPasswordField(fieldPassword, "", 40, '*', nil).
		AddButton("Sign in", lf.submit).
		AddButton("Quit", app.Stop)
	lf.form.SetBorder(true).SetTitle(" Sign in ").SetTitleColor(theme.Colors.Title)
	lf.form.SetButtonsAlign(tview.AlignCenter)

	lf.Flex = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(lf.form, 9, 0, true).
			AddItem(lf.message, 2, 0, false).
			AddItem(nil, 0, 1, false),
			60, 0, true).
		AddItem(nil, 0, 1, false)

	return lf
}

// Reset clears the password, pre-fills email and shows message.
func (lf *LoginForm) Reset(email, message string) {
	lf.busy = false

	if email != "" {
		lf.form.GetFormItemByLabel(fieldEmail).(*tview.InputField).SetText(email)
	}
	lf.form.GetFormItemByLabel(fieldPassword).(*tview.InputField).SetText("")

	if message != "" {
		lf.showMessage(theme.Colors.Warning, message)
	} else {
		lf.message.SetText("")
	}

	lf.form.SetFocus(0)
	if email != "" {
		lf.form.SetFocus(1)
	}
}

func (lf *LoginForm) showMessage(color tcell.Color, text string) {
	lf.message.SetText(fmt.Sprintf("[%s]%s[-]", theme.ColorToTag(color), tview.Escape(text)))
}

// submit validates the form and signs in without blocking the UI.
func (lf *LoginForm) submit() {
	if lf.busy {
		return
	}

	in, err := forms.ValidateLogin(forms.LoginInput{
		Email:    lf.form.GetFormItemByLabel(fieldEmail).(*tview.InputField).GetText(),
		Password: lf.form.GetFormItemByLabel(fieldPassword).(*tview.InputField).GetText(),
	})
	if err != nil {
		lf.showMessage(theme.Colors.Error, err.Error())
		return
	}

	lf.busy = true
	lf.showMessage(theme.Colors.Info, "Signing in…")

	a := lf.app
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.config.GetTimeout())
		defer cancel()

		user, err := a.client.Login(ctx, in.Email, in.Password)
		if err == nil {
			err = a.session.SetLogin(a.session.Token(), user.Email)
		}

		a.QueueUpdateDraw(func() {
			lf.busy = false

			if err != nil {
				a.logger.Error("Sign-in failed for %s: %v", in.Email, err)
				lf.showMessage(theme.Colors.Error, "Sign-in failed: "+err.Error())

				return
			}

			a.enterDashboard()
		})
	}()
}
