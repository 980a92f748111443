package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sahilaicoders-git/spgst/internal/model"
	"github.com/sahilaicoders-git/spgst/pkg/logger"
	"github.com/sahilaicoders-git/spgst/prometheus"
)

// ListClients returns all registered clients, newest first.
func (h *Handler) ListClients(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClientOperation("list")
	defer prometheus.TrackDBOperation("query")(time.Now())

	clients, err := h.registry.List()
	if err != nil {
		log.Error("Failed to list clients", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, clients)
}

// CreateClient registers a new client and provisions its database
// best-effort: a provisioning failure is logged but does not undo the
// committed registry entry. The database can be created later via the
// explicit database endpoint.
func (h *Handler) CreateClient(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClientOperation("create")

	var req model.ClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse client creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	client, err := h.registry.Create(&req)
	if err != nil {
		log.Error("Failed to create client", zap.Error(err))
		return respondError(c, err)
	}

	if _, err := h.stores.Provision(client.DBKey); err != nil {
		log.Warn("Could not create client database",
			zap.String("client_id", client.ID),
			zap.String("db_key", client.DBKey),
			zap.Error(err))
	} else {
		prometheus.ProvisionCounter.Inc()
	}

	if n, err := h.registry.Count(); err == nil {
		prometheus.UpdateRegisteredClients(n)
	}

	log.Info("Client created",
		zap.String("id", client.ID),
		zap.String("name", client.ClientName),
		zap.String("db_key", client.DBKey))

	return c.JSON(http.StatusCreated, client)
}

// UpdateClient merges the present request fields into the stored
// client. The derived database key is never recomputed on rename.
func (h *Handler) UpdateClient(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClientOperation("update")

	var req model.ClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse client update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := h.registry.Update(c.Param("id"), &req); err != nil {
		log.Error("Failed to update client", zap.String("id", c.Param("id")), zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Client updated successfully"})
}

// DeleteClient removes the client from the registry only. Its database
// file stays on disk; DeleteClientDatabase removes it explicitly.
func (h *Handler) DeleteClient(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClientOperation("delete")
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.registry.Delete(c.Param("id")); err != nil {
		log.Error("Failed to delete client", zap.String("id", c.Param("id")), zap.Error(err))
		return respondError(c, err)
	}

	if n, err := h.registry.Count(); err == nil {
		prometheus.UpdateRegisteredClients(n)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Client deleted successfully"})
}
