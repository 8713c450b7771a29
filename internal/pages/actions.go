package pages

import (
	"context"

	"github.com/devnullvoid/shoptui/internal/bulk"
	"github.com/devnullvoid/shoptui/pkg/api"
)

// StatusChoices returns the statuses an item of resource can be moved to.
func StatusChoices(resource api.Resource) []string {
	switch resource {
	case api.ResourceOrders:
		return api.OrderStatuses
	case api.ResourceCustomers, api.ResourceAdmins:
		return []string{api.AccountStatusActive, api.AccountStatusInactive, api.AccountStatusBlocked}
	default:
		return nil
	}
}

// StatusAction sets the status of one item per call.
func StatusAction(client *api.Client, resource api.Resource, status, notes string) bulk.Action {
	return func(ctx context.Context, id string) error {
		return client.UpdateStatus(ctx, resource, id, api.StatusUpdate{Status: status, Notes: notes})
	}
}

// BlockAction blocks or unblocks one customer per call.
func BlockAction(client *api.Client, blocked bool) bulk.Action {
	return func(ctx context.Context, id string) error {
		return client.SetCustomerBlocked(ctx, id, blocked)
	}
}

// DeleteAction deletes one item per call.
func DeleteAction(client *api.Client, resource api.Resource) bulk.Action {
	return func(ctx context.Context, id string) error {
		return client.Delete(ctx, resource, id)
	}
}
