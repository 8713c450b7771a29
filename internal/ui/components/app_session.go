package components

import (
	"time"

	"github.com/devnullvoid/shoptui/internal/cache"
	"github.com/devnullvoid/shoptui/internal/session"
	"github.com/devnullvoid/shoptui/internal/ui/models"
	"github.com/devnullvoid/shoptui/pkg/api"
)

const sessionExpiredMessage = "Session expired, please sign in again"

// showLogin switches to the sign-in screen. It must run on the UI goroutine.
func (a *App) showLogin(message string) {
	a.onLogin.Store(true)
	a.stopEvents()

	for _, v := range a.views {
		v.Stop()
	}

	a.closeModals()
	a.header.SetSignedIn("")
	a.login.Reset(a.config.Email, message)

	a.pages.SwitchToPage(pageLogin)
	a.SetFocus(a.login)
}

// enterDashboard shows the pages after a successful sign-in or with a stored
// session. It must run on the UI goroutine.
func (a *App) enterDashboard() {
	a.onLogin.Store(false)
	a.redirecting.Store(false)

	a.header.SetSignedIn(a.session.Email())
	a.updateTabs()
	a.updateFooter()

	a.pages.SwitchToPage(pageMain)
	a.SetFocus(a.currentView())

	a.refreshCurrent()
	a.startEvents()
}

// handleUnauthorized reacts to a rejected session: the client has already
// cleared it, so the user is told and sent to the login screen after the
// configured delay. Only the first 401 of a burst schedules the redirect.
func (a *App) handleUnauthorized(err error) {
	if !a.redirecting.CompareAndSwap(false, true) {
		return
	}

	a.logger.Info("Session rejected, redirecting to login: %v", err)
	a.stopEvents()

	time.AfterFunc(a.config.RedirectDelay, func() {
		if a.ctx.Err() != nil {
			return
		}

		a.QueueUpdateDraw(func() {
			a.showLogin(sessionExpiredMessage)
		})
	})
}

// logout clears the session and every cached collection. It must run on the
// UI goroutine.
func (a *App) logout() {
	a.client.Logout()

	if a.cache != nil {
		if err := cache.DropSnapshots(a.cache, string(api.ResourceOrders), string(api.ResourceCustomers),
			string(api.ResourceAdmins), string(api.ResourceProducts)); err != nil {
			a.logger.Error("Failed to drop cached collections: %v", err)
		}
	}

	models.GlobalState.Reset()
	a.redirecting.Store(true)
	a.showLogin("Signed out")
}

// watchSession follows the session file so a login or logout in another
// terminal is reflected here.
func (a *App) watchSession() {
	err := session.Watch(a.ctx, a.session, 0, func(signedIn bool) {
		switch {
		case signedIn && a.onLogin.Load():
			a.logger.Info("Signed in from another process")
			a.QueueUpdateDraw(a.enterDashboard)
		case !signedIn && !a.onLogin.Load() && !a.redirecting.Load():
			a.logger.Info("Signed out from another process")
			a.QueueUpdateDraw(func() {
				a.header.ShowWarning("Signed out in another session")
			})
			a.handleUnauthorized(api.ErrNotAuthenticated)
		}
	}, func(err error) {
		a.logger.Error("Session watcher: %v", err)
	})
	if err != nil {
		a.logger.Error("Session watcher stopped: %v", err)
	}
}
