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

const purchaseOrder = "invoice_date DESC, created_at DESC"

// ListClientPurchases returns a client's purchases, optionally
// filtered by month.
func (h *Handler) ListClientPurchases(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("purchases", "list")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	query := repository.Query{Filters: map[string]interface{}{}, Order: purchaseOrder}
	if month := c.QueryParam("month"); month != "" {
		query.Filters["month"] = month
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	purchases, err := repository.List[model.Purchase](db, query)
	if err != nil {
		log.Error("Failed to list purchases", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, purchases)
}

// AddClientPurchase creates a purchase entry for a client.
func (h *Handler) AddClientPurchase(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("purchases", "create")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse purchase request", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	purchase := req.Record()
	purchase.ID = idgen.New(idgen.PrefixPurchase)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := repository.Create(db, &purchase); err != nil {
		log.Error("Failed to create purchase", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      purchase.ID,
		"message": "Purchase added successfully",
	})
}

// UpdateClientPurchase merges the present request fields into a
// purchase entry.
func (h *Handler) UpdateClientPurchase(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("purchases", "update")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse purchase update", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := repository.Update[model.Purchase](db, c.Param("pid"), req.Updates()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Purchase updated successfully"})
}

// DeleteClientPurchase removes a purchase entry.
func (h *Handler) DeleteClientPurchase(c echo.Context) error {
	prometheus.RecordRecordOperation("purchases", "delete")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := repository.Delete[model.Purchase](db, c.Param("pid")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Purchase deleted successfully"})
}

// BulkAddClientPurchases inserts a batch of purchases, skipping
// payloads that fail decoding or insertion without aborting the batch.
func (h *Handler) BulkAddClientPurchases(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("purchases", "bulk_create")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var body struct {
		Purchases []json.RawMessage `json:"purchases"`
	}
	if err := c.Bind(&body); err != nil {
		log.Error("Failed to parse bulk purchase request", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}
	if len(body.Purchases) == 0 {
		return respondError(c, apperr.Validation("No purchases provided"))
	}

	items := make([]repository.BulkItem[model.Purchase], 0, len(body.Purchases))
	for _, raw := range body.Purchases {
		var req model.PurchaseRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			items = append(items, repository.BulkItem[model.Purchase]{Err: err})
			continue
		}
		purchase := req.Record()
		purchase.ID = idgen.New(idgen.PrefixPurchase)
		items = append(items, repository.BulkItem[model.Purchase]{Record: purchase})
	}

	defer prometheus.TrackDBOperation("bulk_insert")(time.Now())
	results, count, err := repository.BulkCreate(db, items)
	if err != nil {
		log.Error("Bulk purchase insert failed", zap.Error(err))
		return respondError(c, err)
	}
	prometheus.RecordBulkRows("purchases", count, len(items)-count)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Successfully added %d purchases", count),
		"count":   count,
		"results": results,
	})
}
