package config

import (
	"fmt"
	"sort"

	"github.com/devnullvoid/shoptui/internal/keys"
)

// KeyBindings defines customizable key mappings for dashboard actions.
// Each field holds one key specification such as "f", "Ctrl+r" or "F5".
type KeyBindings struct {
	OrdersPage    string `yaml:"orders_page"`    // Jump to Orders
	CustomersPage string `yaml:"customers_page"` // Jump to Customers
	AdminsPage    string `yaml:"admins_page"`    // Jump to Admins
	ProductsPage  string `yaml:"products_page"`  // Jump to Products
	NextPage      string `yaml:"next_page"`
	PrevPage      string `yaml:"prev_page"`
	Search        string `yaml:"search"`
	Filter        string `yaml:"filter"`
	Sort          string `yaml:"sort"`
	ClearFilters  string `yaml:"clear_filters"`
	Select        string `yaml:"select"`      // Toggle selection of the row under the cursor
	SelectPage    string `yaml:"select_page"` // Select or clear every visible row
	Bulk          string `yaml:"bulk"`        // Open bulk actions for the selection
	Export        string `yaml:"export"`
	Invoice       string `yaml:"invoice"`
	CopyID        string `yaml:"copy_id"` // Copy the row id to the clipboard
	NewAdmin      string `yaml:"new_admin"`
	Refresh       string `yaml:"refresh"`
	Logout        string `yaml:"logout"`
	Help          string `yaml:"help"`
	Quit          string `yaml:"quit"`
}

// DefaultKeyBindings returns a KeyBindings struct with the default key mappings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		OrdersPage:    "Alt+1",
		CustomersPage: "Alt+2",
		AdminsPage:    "Alt+3",
		ProductsPage:  "Alt+4",
		NextPage:      "]",
		PrevPage:      "[",
		Search:        "/",
		Filter:        "f",
		Sort:          "o",
		ClearFilters:  "c",
		Select:        "x",
		SelectPage:    "Ctrl+a",
		Bulk:          "b",
		Export:        "e",
		Invoice:       "i",
		CopyID:        "y",
		NewAdmin:      "n",
		Refresh:       "Ctrl+r",
		Logout:        "Ctrl+l",
		Help:          "?",
		Quit:          "q",
	}
}

// fields exposes each binding by its YAML name.
func (kb *KeyBindings) fields() map[string]*string {
	return map[string]*string{
		"orders_page":    &kb.OrdersPage,
		"customers_page": &kb.CustomersPage,
		"admins_page":    &kb.AdminsPage,
		"products_page":  &kb.ProductsPage,
		"next_page":      &kb.NextPage,
		"prev_page":      &kb.PrevPage,
		"search":         &kb.Search,
		"filter":         &kb.Filter,
		"sort":           &kb.Sort,
		"clear_filters":  &kb.ClearFilters,
		"select":         &kb.Select,
		"select_page":    &kb.SelectPage,
		"bulk":           &kb.Bulk,
		"export":         &kb.Export,
		"invoice":        &kb.Invoice,
		"copy_id":        &kb.CopyID,
		"new_admin":      &kb.NewAdmin,
		"refresh":        &kb.Refresh,
		"logout":         &kb.Logout,
		"help":           &kb.Help,
		"quit":           &kb.Quit,
	}
}

// merge copies non-empty overrides by YAML name. Unknown names are rejected.
func (kb *KeyBindings) merge(overrides map[string]string) error {
	fields := kb.fields()

	for name, spec := range overrides {
		field, ok := fields[name]
		if !ok {
			return fmt.Errorf("unknown key binding %q", name)
		}

		if spec != "" {
			*field = spec
		}
	}

	return nil
}

func (kb *KeyBindings) fillDefaults() {
	defaults := DefaultKeyBindings()
	defaultFields := defaults.fields()

	for name, field := range kb.fields() {
		if *field == "" {
			*field = *defaultFields[name]
		}
	}
}

// ValidateKeyBindings checks that every binding parses, that no binding takes
// a reserved navigation key unless it is the default, and that no two actions
// share a key.
func ValidateKeyBindings(kb KeyBindings) error {
	bindings := kb.fields()
	defaults := DefaultKeyBindings()
	defaultFields := defaults.fields()

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]string)

	for _, name := range names {
		spec := *bindings[name]
		if spec == "" {
			continue
		}

		b, err := keys.Parse(spec)
		if err != nil {
			return fmt.Errorf("invalid key binding %s: %w", name, err)
		}

		if b.Reserved() && spec != *defaultFields[name] {
			return fmt.Errorf("key binding %s uses reserved key %s", name, spec)
		}

		id := b.ID()
		if other, ok := seen[id]; ok {
			return fmt.Errorf("key binding %s duplicates %s", name, other)
		}

		seen[id] = name
	}

	return nil
}
