package components

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/cache"
	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/internal/export"
	"github.com/devnullvoid/shoptui/internal/pages"
	"github.com/devnullvoid/shoptui/internal/session"
	"github.com/devnullvoid/shoptui/internal/ui/models"
	"github.com/devnullvoid/shoptui/internal/ui/theme"
	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// Page names registered in App.pages.
const (
	pageMain    = "main"
	pageLogin   = "login"
	pageHelp    = "help"
	pageMenu    = "menu"
	pageForm    = "form"
	pageMessage = "message"
	pageConfirm = "confirm"
)

// App is the main application component
type App struct {
	*tview.Application

	ctx     context.Context
	cancel  context.CancelFunc
	client  *api.Client
	config  *config.Config
	session *session.Store
	cache   cache.Cache
	logger  interfaces.Logger

	pages       *tview.Pages
	header      *Header
	footer      *Footer
	tabs        *tview.TextView
	body        *tview.Flex
	mainLayout  *tview.Flex
	searchInput *tview.InputField
	helpModal   *HelpModal
	login       *LoginForm

	views   []pageView
	current int

	lastFocus  tview.Primitive
	isMenuOpen bool

	// redirecting is set from the first 401 until the next sign-in.
	redirecting atomic.Bool
	onLogin     atomic.Bool

	eventsMu     sync.Mutex
	eventsCancel context.CancelFunc
}

// NewApp creates a new application instance with all UI components. The
// snapshot cache may be nil.
func NewApp(ctx context.Context, client *api.Client, cfg *config.Config, store *session.Store, snapshots cache.Cache) *App {
	ctx, cancel := context.WithCancel(ctx)

	app := &App{
		Application: tview.NewApplication(),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		config:      cfg,
		session:     store,
		cache:       snapshots,
		logger:      models.GetUILogger(),
	}

	theme.ApplyCustomTheme(&cfg.Theme)
	theme.ApplyToTview()

	app.header = NewHeader()
	app.header.SetApp(app.Application)
	app.footer = NewFooter(cfg.KeyBindings)
	app.tabs = tview.NewTextView().SetDynamicColors(true).SetRegions(true)
	app.pages = tview.NewPages()
	app.helpModal = NewHelpModal(cfg.KeyBindings)
	app.helpModal.SetApp(app)
	app.login = NewLoginForm(app)

	app.views = app.buildViews()

	app.body = tview.NewFlex().SetDirection(tview.FlexRow)
	app.mainLayout = app.createMainLayout()

	app.pages.AddPage(pageMain, app.mainLayout, true, false)
	app.pages.AddPage(pageLogin, app.login, true, false)

	app.setupKeyboardHandlers()
	app.SetRoot(app.pages, true)

	return app
}

// buildViews creates one controller and table per page in tab order.
func (a *App) buildViews() []pageView {
	opts := func(resource api.Resource) pages.Options {
		return pages.Options{
			Cache:    a.cache,
			Logger:   a.logger,
			PageSize: a.config.PageSize,
			Hooks:    a.hooksFor(resource),
		}
	}

	return []pageView{
		newListPage("Orders", pages.NewOrders(a.client, opts(api.ResourceOrders)), orderColumns(), export.OrderColumns()),
		newListPage("Customers", pages.NewCustomers(a.client, opts(api.ResourceCustomers)), customerColumns(), export.CustomerColumns()),
		newListPage("Admins", pages.NewAdmins(a.client, opts(api.ResourceAdmins)), adminColumns(), export.AdminColumns()),
		newListPage("Products", pages.NewProducts(a.client, opts(api.ResourceProducts)), productColumns(), export.ProductColumns()),
	}
}

// hooksFor wires a controller to the UI. Controllers call hooks from worker
// goroutines, so every hook goes through QueueUpdateDraw.
func (a *App) hooksFor(resource api.Resource) pages.Hooks {
	return pages.Hooks{
		OnChange: func() {
			a.QueueUpdateDraw(func() {
				v := a.view(resource)
				if v == nil {
					return
				}

				v.Render()
				if v == a.currentView() {
					a.updateFooter()
					a.updateLoading(v)
				}
			})
		},
		OnNotify: func(n pages.Notice) {
			a.QueueUpdateDraw(func() {
				a.notify(n)
			})
		},
		OnUnauthorized: a.handleUnauthorized,
	}
}

// createMainLayout builds the tab bar, active page and footer column.
func (a *App) createMainLayout() *tview.Flex {
	a.body.AddItem(a.currentView(), 0, 1, true)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.tabs, 1, 0, false).
		AddItem(a.body, 0, 1, true).
		AddItem(a.footer, 2, 0, false)
}

// Run starts the application on the login screen, or on the dashboard when
// a stored session exists.
func (a *App) Run() error {
	defer a.shutdown()

	go a.watchSession()

	if a.session.Token() != "" {
		a.enterDashboard()
	} else {
		a.showLogin("")
	}

	return a.Application.Run()
}

func (a *App) shutdown() {
	a.cancel()

	for _, v := range a.views {
		v.Stop()
	}
}

func (a *App) currentView() pageView {
	return a.views[a.current]
}

func (a *App) view(resource api.Resource) pageView {
	for _, v := range a.views {
		if v.Resource() == resource {
			return v
		}
	}

	return nil
}

// switchTo makes the page at index current and refetches it.
func (a *App) switchTo(index int) {
	if index < 0 || index >= len(a.views) || index == a.current {
		return
	}

	prev := a.currentView()
	prev.SaveCursor()
	prev.Stop()

	a.closeSearch()

	a.current = index
	next := a.currentView()

	a.body.Clear()
	a.body.AddItem(next, 0, 1, true)
	next.RestoreCursor()
	a.SetFocus(next)

	a.updateTabs()
	a.updateFooter()
	a.refreshCurrent()
}

// refreshCurrent refetches the active page in the background.
func (a *App) refreshCurrent() {
	a.refreshView(a.currentView())
}

func (a *App) refreshView(v pageView) {
	go func() {
		// Errors are reported through the controller's hooks.
		_ = v.Refresh(a.ctx)
	}()
}

func (a *App) updateTabs() {
	parts := make([]string, len(a.views))
	for i, v := range a.views {
		if i == a.current {
			parts[i] = fmt.Sprintf("[%s::b] %d %s [-::-]", theme.ColorToTag(theme.Colors.HeaderText), i+1, v.Title())
		} else {
			parts[i] = fmt.Sprintf("[%s] %d %s [-]", theme.ColorToTag(theme.Colors.Secondary), i+1, v.Title())
		}
	}

	a.tabs.SetText(strings.Join(parts, "│"))
}

func (a *App) updateFooter() {
	a.footer.UpdateStatus(a.currentView().Status())
}

func (a *App) updateLoading(v pageView) {
	if v.Status().Loading {
		if !a.header.IsLoading() {
			a.header.ShowLoading("Loading " + v.Title() + "…")
		}
		return
	}

	if a.header.IsLoading() {
		a.header.Reset()
	}
}

// notify shows a controller notice in the header.
func (a *App) notify(n pages.Notice) {
	switch n.Level {
	case pages.LevelError:
		a.header.ShowError(n.Message)
	case pages.LevelWarning:
		a.header.ShowWarning(n.Message)
	default:
		a.header.ShowSuccess(n.Message)
	}
}

func (a *App) removePageIfPresent(name string) {
	if a.pages.HasPage(name) {
		a.pages.RemovePage(name)
	}
}

func (a *App) restoreFocus() {
	if a.lastFocus != nil {
		a.SetFocus(a.lastFocus)
		a.lastFocus = nil

		return
	}

	a.SetFocus(a.currentView())
}
