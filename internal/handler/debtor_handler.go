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

// ListClientDebtors returns a client's sundry debtors ledger, newest
// first.
func (h *Handler) ListClientDebtors(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("sundry_debtors", "list")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	defer prometheus.TrackDBOperation("query")(time.Now())
	debtors, err := repository.List[model.SundryDebtor](db, repository.Query{
		Filters: map[string]interface{}{},
		Order:   "created_at DESC",
	})
	if err != nil {
		log.Error("Failed to list sundry debtors", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, debtors)
}

// AddClientDebtor creates a sundry debtor entry. GSTIN is unique
// within a client's ledger.
func (h *Handler) AddClientDebtor(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("sundry_debtors", "create")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.SundryDebtorRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse debtor request", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	debtor := req.Record()
	debtor.ID = idgen.New(idgen.PrefixSundryDebtor)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := repository.Create(db, &debtor); err != nil {
		log.Error("Failed to create sundry debtor", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      debtor.ID,
		"message": "Sundry debtor added successfully",
	})
}

// UpdateClientDebtor merges the present request fields into a debtor
// entry.
func (h *Handler) UpdateClientDebtor(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRecordOperation("sundry_debtors", "update")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	var req model.SundryDebtorRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse debtor update", zap.Error(err))
		return respondError(c, apperr.Validation("invalid request: %v", err))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := repository.Update[model.SundryDebtor](db, c.Param("did"), req.Updates()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Sundry debtor updated successfully"})
}

// DeleteClientDebtor removes a debtor entry.
func (h *Handler) DeleteClientDebtor(c echo.Context) error {
	prometheus.RecordRecordOperation("sundry_debtors", "delete")

	_, db, err := h.openClientStore(c)
	if err != nil {
		return respondError(c, err)
	}
	defer tenantdb.Close(db)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := repository.Delete[model.SundryDebtor](db, c.Param("did")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Sundry debtor deleted successfully"})
}
