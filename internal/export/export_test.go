package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnullvoid/shoptui/pkg/api"
)

var placed = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func sampleOrder() api.Order {
	return api.Order{
		ID:            "ORD-007",
		CustomerName:  "Grace Lee",
		CustomerEmail: "grace.lee@example.com",
		Status:        api.OrderStatusShipped,
		PaymentStatus: api.PaymentStatusPaid,
		Items: []api.OrderLine{
			{ProductID: "PRD-001", Name: "Hydra Glow Serum", Quantity: 2, Price: 34},
			{ProductID: "PRD-011", Name: "Jasmine <Body> Lotion", Quantity: 1, Price: 21},
		},
		Subtotal: 89,
		Shipping: 0,
		Tax:      7.12,
		Total:    96.12,
		ShippingAddress: api.Address{
			Name: "Grace Lee", Line1: "16 Blossom Street", City: "Lyon", PostalCode: "10222", Country: "US",
		},
		CreatedAt: placed,
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "orders-20250106-0900.csv", Filename("orders", FormatCSV, placed))
}

func TestCSV_Orders(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, CSV(&buf, OrderColumns(), []api.Order{sampleOrder()}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, len(records[0]), len(records[1]))
	assert.Equal(t, []string{"ORD-007", "Grace Lee", "grace.lee@example.com", "shipped", "paid", "2", "89.00", "0.00", "7.12", "96.12", "Lyon", "US", "2025-01-06T09:00:00Z"}, records[1])
}

func TestCSV_EscapesFormulas(t *testing.T) {
	var buf bytes.Buffer

	customers := []api.Customer{{ID: "CUS-001", Name: "=HYPERLINK(\"x\")", Email: "a,b@example.com"}}
	require.NoError(t, CSV(&buf, CustomerColumns(), customers))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, "'=HYPERLINK(\"x\")", records[1][1])
	assert.Equal(t, "a,b@example.com", records[1][2], "commas survive quoting")
}

func TestCSV_EmptyCollection(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, CSV(&buf, ProductColumns(), nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "header only")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer

	lastLogin := placed
	admins := []api.Admin{{ID: "ADM-001", Name: "Sofia Laurent", Role: api.RoleSuperAdmin, LastLogin: &lastLogin}}
	require.NoError(t, JSON(&buf, admins))

	var decoded []api.Admin
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "ADM-001", decoded[0].ID)
	assert.True(t, decoded[0].LastLogin.Equal(placed))

	buf.Reset()
	require.NoError(t, JSON[api.Product](&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_Dispatch(t *testing.T) {
	var csvBuf, jsonBuf bytes.Buffer
	products := []api.Product{{ID: "PRD-001", Name: "Hydra Glow Serum", Tags: []string{"sale", "bestseller"}}}

	require.NoError(t, Write(&csvBuf, FormatCSV, ProductColumns(), products))
	require.NoError(t, Write(&jsonBuf, FormatJSON, ProductColumns(), products))

	assert.Contains(t, csvBuf.String(), "sale;bestseller")
	assert.Contains(t, jsonBuf.String(), `"id": "PRD-001"`)
	assert.Error(t, Write(&csvBuf, Format("xml"), ProductColumns(), products))
}

func TestInvoice(t *testing.T) {
	var buf bytes.Buffer

	issued := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Invoice(&buf, DefaultShop, sampleOrder(), issued))

	html := buf.String()
	assert.Contains(t, html, "<title>Invoice INV-ORD-007</title>")
	assert.Contains(t, html, "Issued February 1, 2025")
	assert.Contains(t, html, "$68.00", "line amount is quantity times price")
	assert.Contains(t, html, "$96.12")
	assert.Contains(t, html, "Jasmine &lt;Body&gt; Lotion", "item names are escaped")
	assert.NotContains(t, html, "Notes:")
}

func TestInvoice_RequiresOrderID(t *testing.T) {
	var buf bytes.Buffer

	assert.Error(t, Invoice(&buf, DefaultShop, api.Order{}, placed))
	assert.Zero(t, buf.Len())
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "orders.csv")

	require.NoError(t, ToFile(path, func(w io.Writer) error {
		return CSV(w, OrderColumns(), []api.Order{sampleOrder()})
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ORD-007")

	failed := filepath.Join(t.TempDir(), "broken.json")
	err = ToFile(failed, func(io.Writer) error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.NoFileExists(t, failed)
}
