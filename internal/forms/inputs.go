package forms

import (
	"fmt"
	"strings"

	"github.com/devnullvoid/shoptui/pkg/api"
)

// LoginInput is the sign-in form.
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// ValidateLogin trims and lowercases the email and checks both fields.
func ValidateLogin(in LoginInput) (LoginInput, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := Struct(in); err != nil {
		return LoginInput{}, err
	}

	return in, nil
}

// AdminInput is the create-admin form.
type AdminInput struct {
	Name     string `form:"name" validate:"required,min=2,max=80"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
	Role     string `form:"role" validate:"required,admin_role"`
}

// ValidateAdmin trims the input, validates it and returns the request to
// send.
func ValidateAdmin(in AdminInput) (api.CreateAdminRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.TrimSpace(in.Role)

	if err := Struct(in); err != nil {
		return api.CreateAdminRequest{}, err
	}

	return api.CreateAdminRequest{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	}, nil
}

type orderStatusInput struct {
	Status string `form:"status" validate:"required,order_status"`
	Notes  string `form:"notes" validate:"max=500"`
}

type accountStatusInput struct {
	Status string `form:"status" validate:"required,account_status"`
	Notes  string `form:"notes" validate:"max=500"`
}

// StatusInput is the status form of an order, customer or admin.
type StatusInput struct {
	Resource api.Resource
	Status   string
	Notes    string
}

// ValidateStatus checks that Status is valid for Resource and returns the
// update to send.
func ValidateStatus(in StatusInput) (api.StatusUpdate, error) {
	status := strings.ToLower(strings.TrimSpace(in.Status))
	notes := strings.TrimSpace(in.Notes)

	var err error

	switch in.Resource {
	case api.ResourceOrders:
		err = Struct(orderStatusInput{Status: status, Notes: notes})
	case api.ResourceCustomers, api.ResourceAdmins:
		err = Struct(accountStatusInput{Status: status, Notes: notes})
	default:
		return api.StatusUpdate{}, fmt.Errorf("%s have no status", in.Resource)
	}

	if err != nil {
		return api.StatusUpdate{}, err
	}

	return api.StatusUpdate{Status: status, Notes: notes}, nil
}
