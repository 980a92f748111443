package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sahilaicoders-git/spgst/pkg/apperr"
	"github.com/sahilaicoders-git/spgst/pkg/logger"
	"github.com/sahilaicoders-git/spgst/prometheus"
)

// GetClientDatabase reports the location and state of a client's
// database file.
func (h *Handler) GetClientDatabase(c echo.Context) error {
	prometheus.RecordClientOperation("database_info")

	client, err := h.registry.Get(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"clientId":       client.ID,
		"clientName":     client.ClientName,
		"databasePath":   h.stores.Path(client.DBKey),
		"databaseExists": h.stores.Exists(client.DBKey),
		"databaseSize":   h.stores.Size(client.DBKey),
	})
}

// CreateClientDatabase provisions the database for an existing client.
// Provisioning is idempotent: re-running it on a live store leaves
// existing rows untouched.
func (h *Handler) CreateClientDatabase(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClientOperation("database_create")

	client, err := h.registry.Get(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	path, err := h.stores.Provision(client.DBKey)
	if err != nil {
		log.Error("Failed to provision client database",
			zap.String("client_id", client.ID), zap.Error(err))
		return respondError(c, err)
	}
	prometheus.ProvisionCounter.Inc()

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Client database created successfully",
		"databasePath": path,
	})
}

// DeleteClientDatabase removes a client's database file. The registry
// entry is untouched; pairing this with DeleteClient is the caller's
// choice.
func (h *Handler) DeleteClientDatabase(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordClientOperation("database_delete")

	client, err := h.registry.Get(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !h.stores.Exists(client.DBKey) {
		return respondError(c, apperr.NotFound("Client database"))
	}
	if err := h.stores.Remove(client.DBKey); err != nil {
		log.Error("Failed to remove client database",
			zap.String("client_id", client.ID), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Client database deleted",
		zap.String("client_id", client.ID),
		zap.String("db_key", client.DBKey))

	return c.JSON(http.StatusOK, echo.Map{"message": "Client database deleted successfully"})
}
