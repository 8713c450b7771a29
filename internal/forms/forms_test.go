package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnullvoid/shoptui/pkg/api"
)

func validAdmin() AdminInput {
	return AdminInput{
		Name:     "  Noor Haddad ",
		Email:    "Noor@GlowShop.test",
		Password: "s3cure-pass",
		Confirm:  "s3cure-pass",
		Role:     api.RoleEditor,
	}
}

func TestValidateAdmin(t *testing.T) {
	req, err := ValidateAdmin(validAdmin())

	require.NoError(t, err)
	assert.Equal(t, api.CreateAdminRequest{
		Name:     "Noor Haddad",
		Email:    "noor@glowshop.test",
		Password: "s3cure-pass",
		Role:     api.RoleEditor,
	}, req)
}

func TestValidateAdmin_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*AdminInput)
		field  string
		want   string
	}{
		{"missing name", func(in *AdminInput) { in.Name = "   " }, "name", "is required"},
		{"short name", func(in *AdminInput) { in.Name = "N" }, "name", "must be at least 2 characters"},
		{"bad email", func(in *AdminInput) { in.Email = "noor" }, "email", "must be a valid email address"},
		{"short password", func(in *AdminInput) { in.Password, in.Confirm = "short", "short" }, "password", "must be at least 8 characters"},
		{"mismatch", func(in *AdminInput) { in.Confirm = "other-pass" }, "confirm", "must match password"},
		{"unknown role", func(in *AdminInput) { in.Role = "owner" }, "role", "must be one of: super-admin, admin, editor, support"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validAdmin()
			tt.modify(&in)

			_, err := ValidateAdmin(in)

			var errs Errors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.want, errs.For(tt.field))
		})
	}
}

func TestValidateAdmin_CollectsAllFields(t *testing.T) {
	_, err := ValidateAdmin(AdminInput{})

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 5)
	assert.Contains(t, err.Error(), "email is required")
}

func TestValidateStatus(t *testing.T) {
	update, err := ValidateStatus(StatusInput{Resource: api.ResourceOrders, Status: " Shipped ", Notes: "DHL 42"})
	require.NoError(t, err)
	assert.Equal(t, api.StatusUpdate{Status: api.OrderStatusShipped, Notes: "DHL 42"}, update)

	_, err = ValidateStatus(StatusInput{Resource: api.ResourceOrders, Status: api.AccountStatusBlocked})
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.For("status"), "pending")

	_, err = ValidateStatus(StatusInput{Resource: api.ResourceCustomers, Status: api.AccountStatusBlocked})
	assert.NoError(t, err)

	_, err = ValidateStatus(StatusInput{Resource: api.ResourceProducts, Status: "active"})
	assert.EqualError(t, err, "products have no status")
}

func TestValidateLogin(t *testing.T) {
	in, err := ValidateLogin(LoginInput{Email: " Admin@GlowShop.test ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "admin@glowshop.test", in.Email)

	_, err = ValidateLogin(LoginInput{Email: "admin"})
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "must be a valid email address", errs.For("email"))
	assert.Equal(t, "is required", errs.For("password"))
}

func TestStruct_NonStruct(t *testing.T) {
	err := Struct("not a struct")

	require.Error(t, err)
	var errs Errors
	assert.NotErrorAs(t, err, &errs)
}

func TestParseDateRange(t *testing.T) {
	start, end, err := ParseDateRange("2025-03-01", "2025-03-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 2, 23, 59, 59, 999999999, time.UTC), end)

	start, end, err = ParseDateRange("", " ", time.UTC)
	require.NoError(t, err)
	assert.True(t, start.IsZero())
	assert.Equal(t, 9999, end.Year())

	_, _, err = ParseDateRange("03/01/2025", "", time.UTC)
	assert.EqualError(t, err, "from: expected YYYY-MM-DD")

	_, _, err = ParseDateRange("", "tomorrow", time.UTC)
	assert.EqualError(t, err, "to: expected YYYY-MM-DD")
}
