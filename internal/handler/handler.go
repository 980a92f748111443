// Package handler translates the HTTP surface into registry,
// provisioner and repository calls. Every record operation resolves
// the client against the registry first, then opens that client's own
// database for the duration of the request.
package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sahilaicoders-git/spgst/internal/model"
	"github.com/sahilaicoders-git/spgst/internal/registry"
	"github.com/sahilaicoders-git/spgst/pkg/apperr"
	"github.com/sahilaicoders-git/spgst/pkg/logger"
	"github.com/sahilaicoders-git/spgst/pkg/tenantdb"
	"github.com/sahilaicoders-git/spgst/prometheus"
)

// Handler carries the explicit dependencies of the HTTP surface.
type Handler struct {
	registry *registry.Store
	stores   *tenantdb.Provisioner
}

// New builds a Handler over the registry store and the client database
// provisioner.
func New(reg *registry.Store, stores *tenantdb.Provisioner) *Handler {
	return &Handler{registry: reg, stores: stores}
}

// respondError renders an error body with the taxonomy's status code
// and counts it.
func respondError(c echo.Context, err error) error {
	switch {
	case apperr.IsKind(err, apperr.KindValidation):
		prometheus.RecordError("validation")
	case apperr.IsKind(err, apperr.KindNotFound):
		prometheus.RecordError("not_found")
	case apperr.IsKind(err, apperr.KindDuplicateKey):
		prometheus.RecordError("duplicate_key")
	default:
		prometheus.RecordError("storage")
	}
	return c.JSON(apperr.HTTPStatus(err), echo.Map{"error": apperr.Message(err)})
}

// openClientStore resolves the client from the :id path parameter and
// opens its database. The caller must release the handle with
// tenantdb.Close.
func (h *Handler) openClientStore(c echo.Context) (*model.Client, *gorm.DB, error) {
	client, err := h.registry.Get(c.Param("id"))
	if err != nil {
		return nil, nil, err
	}
	db, err := h.stores.Open(client.DBKey)
	if err != nil {
		logger.FromEcho(c).Error("Failed to open client database",
			zap.String("client_id", client.ID),
			zap.String("db_key", client.DBKey),
			zap.Error(err))
		return nil, nil, err
	}
	return client, db, nil
}
