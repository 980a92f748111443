package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sahilaicoders-git/spgst/internal/model"
	"github.com/sahilaicoders-git/spgst/internal/registry"
	"github.com/sahilaicoders-git/spgst/pkg/config"
	"github.com/sahilaicoders-git/spgst/pkg/tenantdb"
)

type testAPI struct {
	echo *echo.Echo
	cfg  config.StorageConfig
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := config.StorageConfig{
		Dir:          t.TempDir(),
		RegistryPath: filepath.Join(t.TempDir(), "gst_clients.db"),
		BusyTimeout:  5 * time.Second,
		LogLevel:     gormlogger.Silent,
	}

	reg, err := registry.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })

	stores, err := tenantdb.NewProvisioner(cfg, model.TenantCollections()...)
	require.NoError(t, err)

	e := echo.New()
	New(reg, stores).Register(e)
	return &testAPI{echo: e, cfg: cfg}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (a *testAPI) createClient(t *testing.T) string {
	t.Helper()
	rec := a.do(http.MethodPost, "/api/clients", `{
		"clientName": "Acme Traders",
		"businessName": "Acme Trading Co",
		"indianFYear": "2024-25",
		"gstType": "Regular",
		"gstNo": "29ABCDE1234F1Z5",
		"returnFrequency": "Monthly"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	return body["id"].(string)
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "GST Software Backend is running", body["message"])
	assert.NotContains(t, body, "db_status")

	rec = api.do(http.MethodGet, "/api/health?check=db", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["db_status"])
}

func TestCreateClientProvisionsDatabase(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/clients", `{
		"clientName": "Acme Traders",
		"businessName": "Acme Trading Co",
		"indianFYear": "2024-25",
		"gstType": "Regular",
		"gstNo": "29ABCDE1234F1Z5",
		"returnFrequency": "Monthly"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Regexp(t, regexp.MustCompile(`^CLI_\d+_[0-9A-F]{8}$`), body["id"])
	assert.Equal(t, "Acme Traders", body["clientName"])
	assert.Equal(t, "acme_traders", body["dbKey"])

	_, err := os.Stat(filepath.Join(api.cfg.Dir, "acme_traders.db"))
	assert.NoError(t, err)
}

func TestCreateClientMissingField(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/clients", `{
		"businessName": "Acme Trading Co",
		"indianFYear": "2024-25",
		"gstType": "Regular",
		"gstNo": "29ABCDE1234F1Z5",
		"returnFrequency": "Monthly"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "clientName is required", decode(t, rec)["error"])
}

func TestUnknownClient(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/clients/CLI_0_DEADBEEF/purchases", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Client not found", decode(t, rec)["error"])
}

func TestClientRenameKeepsDatabaseKey(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPut, "/api/clients/"+id, `{"clientName": "Acme Traders Pvt Ltd"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/clients/"+id+"/database", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Acme Traders Pvt Ltd", body["clientName"])
	assert.True(t, strings.HasSuffix(body["databasePath"].(string), "acme_traders.db"))
	assert.Equal(t, true, body["databaseExists"])
}

func TestDeleteClientLeavesDatabaseFile(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodDelete, "/api/clients/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := os.Stat(filepath.Join(api.cfg.Dir, "acme_traders.db"))
	assert.NoError(t, err)

	rec = api.do(http.MethodDelete, "/api/clients/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteClientDatabase(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodDelete, "/api/clients/"+id+"/database", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := os.Stat(filepath.Join(api.cfg.Dir, "acme_traders.db"))
	assert.True(t, os.IsNotExist(err))

	rec = api.do(http.MethodDelete, "/api/clients/"+id+"/database", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Client database not found", decode(t, rec)["error"])

	// registry entry survives, so the database can be recreated
	rec = api.do(http.MethodPost, "/api/clients/"+id+"/database", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPurchaseLifecycle(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients/"+id+"/purchases", `{
		"supplierGSTIN": "29XYZDE5678F1A2",
		"supplierName": "Bolt Supplies",
		"invoiceNumber": "INV-001",
		"invoiceDate": "2024-04-10",
		"invoiceValue": "1180.50",
		"taxableValue": 1000,
		"integratedTax": 180.5,
		"calculatedTaxRate": "18",
		"month": "Apr-2024"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	purchaseID := body["id"].(string)
	assert.Regexp(t, regexp.MustCompile(`^PUR_\d+_[0-9A-F]{8}$`), purchaseID)
	assert.Equal(t, "Purchase added successfully", body["message"])

	rec = api.do(http.MethodGet, "/api/clients/"+id+"/purchases?month=Apr-2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var purchases []model.Purchase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &purchases))
	require.Len(t, purchases, 1)
	assert.Equal(t, purchaseID, purchases[0].ID)
	assert.Equal(t, 1180.50, purchases[0].InvoiceValue)
	assert.Equal(t, "18", purchases[0].TaxRate)
	assert.Equal(t, "Regular", purchases[0].InvoiceType)
	assert.Equal(t, "No", purchases[0].ReverseCharge)
	assert.Equal(t, "Yes", purchases[0].ITCAvailable)
	assert.Equal(t, "active", purchases[0].Status)

	rec = api.do(http.MethodGet, "/api/clients/"+id+"/purchases?month=May-2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = api.do(http.MethodPut, "/api/clients/"+id+"/purchases/"+purchaseID,
		`{"supplierName": "Bolt Supplies Ltd"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/clients/"+id+"/purchases", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &purchases))
	require.Len(t, purchases, 1)
	assert.Equal(t, "Bolt Supplies Ltd", purchases[0].SupplierName)
	assert.Equal(t, "INV-001", purchases[0].InvoiceNumber)

	rec = api.do(http.MethodDelete, "/api/clients/"+id+"/purchases/"+purchaseID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodDelete, "/api/clients/"+id+"/purchases/"+purchaseID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Purchase not found", decode(t, rec)["error"])
}

func TestPurchaseMissingSupplier(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients/"+id+"/purchases", `{
		"supplierName": "Bolt Supplies",
		"invoiceNumber": "INV-001",
		"month": "Apr-2024"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "supplierGSTIN is required", decode(t, rec)["error"])
}

func TestBulkPurchasesSkipsBadPayloads(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients/"+id+"/purchases/bulk", `{
		"purchases": [
			{"supplierGSTIN": "29A", "supplierName": "One", "invoiceNumber": "B-1",
			 "invoiceDate": "2024-04-01", "month": "Apr-2024", "taxableValue": "500"},
			{"supplierGSTIN": "29B", "supplierName": "Two", "invoiceNumber": "B-2",
			 "invoiceDate": "2024-04-02", "month": "Apr-2024", "taxableValue": "not-a-number"},
			{"supplierGSTIN": "29C", "supplierName": "Three", "invoiceNumber": "B-3",
			 "invoiceDate": "2024-04-03", "month": "Apr-2024", "taxableValue": 750}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Successfully added 2 purchases", body["message"])
	assert.Equal(t, float64(2), body["count"])
	results := body["results"].([]interface{})
	require.Len(t, results, 3)

	first := results[0].(map[string]interface{})
	assert.Regexp(t, regexp.MustCompile(`^PUR_`), first["id"])
	assert.NotContains(t, first, "error")
	second := results[1].(map[string]interface{})
	assert.NotEmpty(t, second["error"])

	rec = api.do(http.MethodGet, "/api/clients/"+id+"/purchases", "")
	var purchases []model.Purchase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &purchases))
	assert.Len(t, purchases, 2)
}

func TestBulkPurchasesEmptyBatch(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	for _, body := range []string{`{}`, `{"purchases": []}`} {
		rec := api.do(http.MethodPost, "/api/clients/"+id+"/purchases/bulk", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No purchases provided", decode(t, rec)["error"])
	}
}

func TestSaleB2BRequiresCustomerGSTIN(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	// transactionType omitted means B2B
	rec := api.do(http.MethodPost, "/api/clients/"+id+"/sales", `{
		"customerName": "Retail Kart",
		"invoiceNumber": "S-001",
		"month": "Apr-2024"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "customerGSTIN is required for B2B transactions", decode(t, rec)["error"])

	rec = api.do(http.MethodPost, "/api/clients/"+id+"/sales", `{
		"customerName": "Walk-in",
		"invoiceNumber": "S-002",
		"month": "Apr-2024",
		"transactionType": "B2C"
	}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSaleEmptyQuantityStoresNull(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients/"+id+"/sales", `{
		"customerGSTIN": "27PQRST4321G1Z8",
		"customerName": "Retail Kart",
		"invoiceNumber": "S-001",
		"month": "Apr-2024",
		"quantity": "",
		"unitPrice": ""
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sales []model.Sale
	rec = api.do(http.MethodGet, "/api/clients/"+id+"/sales", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Len(t, sales, 1)
	assert.Nil(t, sales[0].Quantity)
	assert.Nil(t, sales[0].UnitPrice)
}

func TestBulkSalesKeepRowsWithEmptyQuantity(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients/"+id+"/sales/bulk", `{
		"sales": [
			{"customerGSTIN": "27A", "customerName": "One", "invoiceNumber": "S-1",
			 "month": "Apr-2024", "quantity": "", "taxableValue": ""},
			{"customerGSTIN": "27B", "customerName": "Two", "invoiceNumber": "S-2",
			 "month": "Apr-2024", "quantity": "7"}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "Successfully added 2 sales", body["message"])
	assert.Equal(t, float64(2), body["count"])

	var sales []model.Sale
	rec = api.do(http.MethodGet, "/api/clients/"+id+"/sales", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Len(t, sales, 2)
	for _, s := range sales {
		if s.InvoiceNumber == "S-1" {
			assert.Nil(t, s.Quantity)
			assert.Equal(t, 0.0, s.TaxableValue)
		} else {
			require.NotNil(t, s.Quantity)
			assert.Equal(t, 7.0, *s.Quantity)
		}
	}
}

func TestSaleListDefaultsToB2B(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients/"+id+"/sales", `{
		"customerGSTIN": "27PQRST4321G1Z8",
		"customerName": "Retail Kart",
		"invoiceNumber": "S-001",
		"month": "Apr-2024"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/clients/"+id+"/sales", `{
		"customerName": "Walk-in",
		"invoiceNumber": "S-002",
		"month": "Apr-2024",
		"transactionType": "B2C"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sales []model.Sale
	rec = api.do(http.MethodGet, "/api/clients/"+id+"/sales", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Len(t, sales, 1)
	assert.Equal(t, "Retail Kart", sales[0].CustomerName)
	assert.Equal(t, model.TransactionTypeB2B, sales[0].TransactionType)

	rec = api.do(http.MethodGet, "/api/clients/"+id+"/sales?transaction_type=B2C", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Len(t, sales, 1)
	assert.Equal(t, "Walk-in", sales[0].CustomerName)
}

func TestB2CSaleInvoiceValueDefaults(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients/"+id+"/b2c-sales", `{
		"month": "Apr-2024",
		"supplyType": "Intra-State",
		"gstRate": "18",
		"taxableValue": 2500
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	b2cID := decode(t, rec)["id"].(string)
	assert.Regexp(t, regexp.MustCompile(`^B2C_`), b2cID)

	var sales []model.B2CSale
	rec = api.do(http.MethodGet, "/api/clients/"+id+"/b2c-sales", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Len(t, sales, 1)
	assert.Equal(t, 2500.0, sales[0].InvoiceValue)
}

func TestB2CSaleRejectsZeroTaxableValue(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	for _, body := range []string{
		`{"month": "Apr-2024", "supplyType": "Intra-State", "gstRate": "18"}`,
		`{"month": "Apr-2024", "supplyType": "Intra-State", "gstRate": "18", "taxableValue": 0}`,
	} {
		rec := api.do(http.MethodPost, "/api/clients/"+id+"/b2c-sales", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "taxableValue is required", decode(t, rec)["error"])
	}
}

func TestReturnLifecycle(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients/"+id+"/returns", `{
		"returnType": "GSTR-1",
		"period": "Apr-2024",
		"totalTaxableValue": 10000,
		"totalTaxPayable": 1800
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	returnID := decode(t, rec)["id"].(string)
	assert.Regexp(t, regexp.MustCompile(`^RET_`), returnID)

	var returns []model.GSTReturn
	rec = api.do(http.MethodGet, "/api/clients/"+id+"/returns?period=Apr-2024", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &returns))
	require.Len(t, returns, 1)
	assert.Equal(t, "pending", returns[0].Status)

	rec = api.do(http.MethodPut, "/api/clients/"+id+"/returns/"+returnID, `{"status": "filed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/clients/"+id+"/returns", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &returns))
	require.Len(t, returns, 1)
	assert.Equal(t, "filed", returns[0].Status)
}

func TestDebtorUniqueGSTIN(t *testing.T) {
	api := newTestAPI(t)
	id := api.createClient(t)

	payload := `{"debtorName": "Slow Payer & Co", "gstin": "33LMNOP9876H1Z1"}`
	rec := api.do(http.MethodPost, "/api/clients/"+id+"/debtors", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/clients/"+id+"/debtors", payload)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClientIsolation(t *testing.T) {
	api := newTestAPI(t)
	first := api.createClient(t)

	rec := api.do(http.MethodPost, "/api/clients", `{
		"clientName": "Beta Exports",
		"businessName": "Beta Exports LLP",
		"indianFYear": "2024-25",
		"gstType": "Regular",
		"gstNo": "07FGHIJ5678K1Z9",
		"returnFrequency": "Quarterly"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode(t, rec)["id"].(string)

	rec = api.do(http.MethodPost, fmt.Sprintf("/api/clients/%s/purchases", first), `{
		"supplierGSTIN": "29XYZDE5678F1A2",
		"supplierName": "Bolt Supplies",
		"invoiceNumber": "INV-001",
		"month": "Apr-2024"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/clients/%s/purchases", second), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
