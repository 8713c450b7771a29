package dashboard

import "context"

type app struct{}

func (a *app) QueueUpdateDraw(f func()) {}

type controller struct{}

func (c *controller) Refresh(ctx context.Context) error         { return nil }
func (c *controller) Bulk(ctx context.Context, n int) error      { return nil }
func (c *controller) Apply(ctx context.Context, id string) error { return nil }

type model struct{}

func (m *model) Apply(page int) {}

func nested(a *app) {
	a.QueueUpdateDraw(func() {
		a.QueueUpdateDraw(func() {}) // want "nested QueueUpdateDraw"
	})
}

func blocking(ctx context.Context, a *app, c *controller) {
	a.QueueUpdateDraw(func() {
		_ = c.Refresh(ctx)                   // want "Refresh blocks on the backend"
		_ = c.Bulk(context.Background(), 2) // want "Bulk blocks on the backend"
	})
}

func fine(ctx context.Context, a *app, c *controller, m *model) {
	a.QueueUpdateDraw(func() {
		m.Apply(2)
		go func() {
			_ = c.Apply(ctx, "ORD-001")
			a.QueueUpdateDraw(func() {})
		}()
	})

	_ = c.Refresh(ctx)
}
