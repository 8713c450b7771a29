package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePage(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIDs   []string
		wantTotal int
		wantPages int
	}{
		{
			name:      "items with pagination",
			body:      `{"success":true,"items":[{"id":"ORD-001"},{"id":"ORD-002"}],"pagination":{"page":1,"totalPages":13,"total":25}}`,
			wantIDs:   []string{"ORD-001", "ORD-002"},
			wantTotal: 25,
			wantPages: 13,
		},
		{
			name:      "resource key with count",
			body:      `{"success":true,"orders":[{"id":"ORD-003"}],"count":7}`,
			wantIDs:   []string{"ORD-003"},
			wantTotal: 7,
			wantPages: 1,
		},
		{
			name:      "missing total is inferred",
			body:      `{"success":true,"orders":[{"id":"A"},{"id":"B"},{"id":"C"}]}`,
			wantIDs:   []string{"A", "B", "C"},
			wantTotal: 3,
			wantPages: 1,
		},
		{
			name:      "total below array length is raised",
			body:      `{"items":[{"id":"A"},{"id":"B"}],"count":1}`,
			wantIDs:   []string{"A", "B"},
			wantTotal: 2,
			wantPages: 1,
		},
		{
			name:      "bare array",
			body:      ` [{"id":"X"}]`,
			wantIDs:   []string{"X"},
			wantTotal: 1,
			wantPages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := decodePage[Order]([]byte(tt.body), ResourceOrders)
			require.NoError(t, err)

			ids := make([]string, len(page.Items))
			for i, o := range page.Items {
				ids[i] = o.ID
			}

			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPages, page.TotalPages)
		})
	}
}

func TestDecodePage_Failures(t *testing.T) {
	_, err := decodePage[Order]([]byte(`{"success":false,"message":"Database unavailable"}`), ResourceOrders)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database unavailable")

	_, err = decodePage[Order]([]byte(`{"success":true}`), ResourceOrders)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no item array")

	_, err = decodePage[Order]([]byte(`not json`), ResourceOrders)
	assert.Error(t, err)
}

func TestDecodeItem(t *testing.T) {
	order, err := decodeItem[Order]([]byte(`{"success":true,"order":{"id":"ORD-009","total":12.5}}`), "order")
	require.NoError(t, err)
	assert.Equal(t, "ORD-009", order.ID)
	assert.InDelta(t, 12.5, order.Total, 0.001)

	unwrapped, err := decodeItem[Admin]([]byte(`{"id":"ADM-002","role":"editor"}`), "admin")
	require.NoError(t, err)
	assert.Equal(t, "editor", unwrapped.Role)
}

func TestCheckEnvelope(t *testing.T) {
	assert.NoError(t, checkEnvelope(nil))
	assert.NoError(t, checkEnvelope([]byte(`{"success":true,"message":"ok"}`)))
	assert.NoError(t, checkEnvelope([]byte(`OK`)))

	err := checkEnvelope([]byte(`{"success":false,"error":"invalid status"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestListParams_Query(t *testing.T) {
	q := ListParams{Page: 2, Limit: 50, Search: "rose", Filters: map[string]string{"category": "skincare", "brand": ""}}.Query()

	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "rose", q.Get("search"))
	assert.Equal(t, "skincare", q.Get("category"))
	assert.False(t, q.Has("brand"))
	assert.False(t, q.Has("status"))
}

func TestEventResource(t *testing.T) {
	r, ok := Event{Type: "orders.changed"}.Resource()
	assert.True(t, ok)
	assert.Equal(t, ResourceOrders, r)

	_, ok = Event{Type: "ping"}.Resource()
	assert.False(t, ok)
}
