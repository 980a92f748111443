package handler

import (
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

const gstReturnOrder = "period DESC, created_at DESC"

// ListClientReturns returns a client's GST return summaries, optionally
// filtered by period.
func (h *Handler) ListClientReturns(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("gst_returns", "list")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	query := repository.Query{Filters: map[string]interface{}{}, Order: gstReturnOrder}
	if period := c.QueryParam("period"); period != "" {
		query.Filters["period"] = period
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	returns, err := repository.List[model.GSTReturn](db, query)
	if err != nil {
		log.Error("Failed to list GST returns", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, returns)
}

// AddClientReturn creates a GST return summary for a client.
func (h *Handler) AddClientReturn(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("gst_returns", "create")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.GSTReturnRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse GST return request", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	ret := req.Record()
	ret.ID = idgen.New(idgen.PrefixGSTReturn)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := repository.Create(db, &ret); err != nil {
		log.Error("Failed to create GST return", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      ret.ID,
		"message": "GST return added successfully",
	})
}

// UpdateClientReturn merges the present request fields into a GST
// return summary.
func (h *Handler) UpdateClientReturn(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("gst_returns", "update")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.GSTReturnRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse GST return update", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := repository.Update[model.GSTReturn](db, c.Param("rid"), req.Updates()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "GST return updated successfully"})
}

// DeleteClientReturn removes a GST return summary.
func (h *Handler) DeleteClientReturn(c echo.Context) error {
	prometheus.RecordRecordOperation("gst_returns", "delete")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := repository.Delete[model.GSTReturn](db, c.Param("rid")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "GST return deleted successfully"})
}
