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

// B2C buckets carry no invoice date, so listing orders by creation
// time alone.
const b2cSaleOrder = "created_at DESC"

// ListClientB2CSales returns a client's B2C sales buckets, optionally
// filtered by month.
func (h *Handler) ListClientB2CSales(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("b2c_sales", "list")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	query := repository.Query{Filters: map[string]interface{}{}, Order: b2cSaleOrder}
	if month := c.QueryParam("month"); month != "" {
		query.Filters["month"] = month
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	sales, err := repository.List[model.B2CSale](db, query)
	if err != nil {
		log.Error("Failed to list B2C sales", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

// AddClientB2CSale creates a B2C sales bucket for a client.
func (h *Handler) AddClientB2CSale(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("b2c_sales", "create")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.B2CSaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse B2C sale request", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	sale := req.Record()
	sale.ID = idgen.New(idgen.PrefixB2CSale)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := repository.Create(db, &sale); err != nil {
		log.Error("Failed to create B2C sale", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      sale.ID,
		"message": "B2C sale added successfully",
	})
}

// UpdateClientB2CSale merges the present request fields into a B2C
// sales bucket.
func (h *Handler) UpdateClientB2CSale(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("b2c_sales", "update")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.B2CSaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse B2C sale update", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := repository.Update[model.B2CSale](db, c.Param("bid"), req.Updates()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "B2C sale updated successfully"})
}

// DeleteClientB2CSale removes a B2C sales bucket.
func (h *Handler) DeleteClientB2CSale(c echo.Context) error {
	prometheus.RecordRecordOperation("b2c_sales", "delete")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := repository.Delete[model.B2CSale](db, c.Param("bid")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "B2C sale deleted successfully"})
}

// BulkAddClientB2CSales inserts a batch of B2C sales buckets, skipping
// payloads that fail decoding or insertion without aborting the batch.
func (h *Handler) BulkAddClientB2CSales(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("b2c_sales", "bulk_create")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var body struct {
		B2CSales []json.RawMessage `json:"b2cSales"`
	}
	if err := c.Bind(&body); err != nil {
		log.Error("Failed to parse bulk B2C sale request", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}
	if len(body.B2CSales) == 0 {
		return respondError(c, apperr.Validation("No B2C sales provided"))
	}

	items := make([]repository.BulkItem[model.B2CSale], 0, len(body.B2CSales))
	for _, raw := range body.B2CSales {
		var req model.B2CSaleRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			items = append(items, repository.BulkItem[model.B2CSale]{Err: err})
			continue
		}
		sale := req.Record()
		sale.ID = idgen.New(idgen.PrefixB2CSale)
		items = append(items, repository.BulkItem[model.B2CSale]{Record: sale})
	}

	defer prometheus.TrackDBOperation("bulk_insert")(time.Now())
	results, count, err := repository.BulkCreate(db, items)
	if err != nil {
		log.Error("Bulk B2C sale insert failed", zap.Error(err))
		return respondError(c, err)
	}
	prometheus.RecordBulkRows("b2c_sales", count, len(items)-count)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Successfully added %d B2C sales", count),
		"count":   count,
		"results": results,
	})
}
