package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/service"
	"innercloset/gatekeeper/pkg/response"
)

type CatalogHandler struct {
	catalog service.CatalogService
	access  *AccessHandler
	logger  *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, access *AccessHandler, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		access:  access,
		logger:  logger.Named("catalog_handler"),
	}
}

// ListProducts renders a curator's products with per-requester visibility.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	curatorID, err := uuid.Parse(c.Param("curator_id"))
	if err != nil {
		response.BadRequest(c, string(service.ReasonInvalid))
		return
	}

	decision := h.access.decide(c, curatorID)
	products, err := h.catalog.ListProducts(c.Request.Context(), curatorID, decision.Granted)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCuratorNotFound):
			response.NotFound(c, string(service.ReasonInvalid))
		case errors.Is(err, service.ErrCuratorInactive):
			response.NotFound(c, string(service.ReasonInactive))
		default:
			h.logger.Error("list products failed", zap.String("curator_id", curatorID.String()), zap.Error(err))
			response.InternalError(c, string(service.ReasonOf(err)))
		}
		return
	}

	response.Success(c, gin.H{
		"access":   decision.Granted,
		"products": products,
	})
}
