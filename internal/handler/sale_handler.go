package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sahilaicoders-git/spgst/internal/model"
	"github.com/sahilaicoders-git/spgst/internal/repository"
	"github.com/sahilaicoders-git/spgst/pkg/apperr"
	"github.com/sahilaicoders-git/spgst/pkg/idgen"
	"github.com/sahilaicoders-git/spgst/pkg/logger"
	"github.com/sahilaicoders-git/spgst/pkg/tenantdb"
	"github.com/sahilaicoders-git/spgst/prometheus"
)

const saleOrder = "invoice_date DESC, created_at DESC"

// ListClientSales returns a client's sales, optionally filtered by
// month. The transaction_type filter defaults to B2B when the caller
// omits it, so B2C-tagged rows only show up when asked for.
func (h *Handler) ListClientSales(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("sales", "list")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	transactionType := c.QueryParam("transaction_type")
	if transactionType == "" {
		transactionType = model.TransactionTypeB2B
	}

	query := repository.Query{
		Filters: map[string]interface{}{"transaction_type": transactionType},
		Order:   saleOrder,
	}
	if month := c.QueryParam("month"); month != "" {
		query.Filters["month"] = month
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	sales, err := repository.List[model.Sale](db, query)
	if err != nil {
		log.Error("Failed to list sales", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// AddClientSale creates a sale entry for a client. customerGSTIN is
// mandatory only for B2B transactions, which is also the default type.
func (h *Handler) AddClientSale(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("sales", "create")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse sale request", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	sale := req.Record()
	sale.ID = idgen.New(idgen.PrefixSale)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := repository.Create(db, &sale); err != nil {
		log.Error("Failed to create sale", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      sale.ID,
		"message": "Sale added successfully",
	})
}

// UpdateClientSale merges the present request fields into a sale entry.
func (h *Handler) UpdateClientSale(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("sales", "update")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse sale update", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := repository.Update[model.Sale](db, c.Param("sid"), req.Updates()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Sale updated successfully"})
}

// DeleteClientSale removes a sale entry.
func (h *Handler) DeleteClientSale(c echo.Context) error {
	prometheus.RecordRecordOperation("sales", "delete")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := repository.Delete[model.Sale](db, c.Param("sid")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Sale deleted successfully"})
}

// BulkAddClientSales inserts a batch of sales, skipping payloads that
// fail decoding or insertion without aborting the batch.
func (h *Handler) BulkAddClientSales(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("sales", "bulk_create")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var body struct {
		Sales []json.RawMessage `json:"sales"`
	}
	if err := c.Bind(&body); err != nil {
		log.Error("Failed to parse bulk sale request", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}
	if len(body.Sales) == 0 {
		return respondError(c, apperr.Validation("No sales provided"))
	}

	items := make([]repository.BulkItem[model.Sale], 0, len(body.Sales))
	for _, raw := range body.Sales {
		var req model.SaleRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			items = append(items, repository.BulkItem[model.Sale]{Err: err})
			continue
		}
		sale := req.Record()
		sale.ID = idgen.New(idgen.PrefixSale)
		items = append(items, repository.BulkItem[model.Sale]{Record: sale})
	}

	defer prometheus.TrackDBOperation("bulk_insert")(time.Now())
	results, count, err := repository.BulkCreate(db, items)
	if err != nil {
		log.Error("Bulk sale insert failed", zap.Error(err))
		return respondError(c, err)
	}
	prometheus.RecordBulkRows("sales", count, len(items)-count)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Successfully added %d sales", count),
		"count":   count,
		"results": results,
	})
}
