package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"innercloset/gatekeeper/internal/service"
	"innercloset/gatekeeper/pkg/response"
)

type AdminHandler struct {
	inviteService service.InviteService
}

func NewAdminHandler(inviteService service.InviteService) *AdminHandler {
	return &AdminHandler{inviteService: inviteService}
}

type CreateInviteCodeRequest struct {
	CuratorID          uuid.UUID  `json:"curator_id" binding:"required"`
	Code               string     `json:"code"`
	MaxUses            int        `json:"max_uses"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	AllowedEmailDomain string     `json:"allowed_email_domain"`
}

// CreateInviteCode creates a new invite code.
func (h *AdminHandler) CreateInviteCode(c *gin.Context) {
	userID, _ := sessionUser(c)

	var req CreateInviteCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, string(service.ReasonInvalid))
		return
	}

	code, err := h.inviteService.CreateInviteCode(c.Request.Context(), service.CreateInviteCodeParams{
		CuratorID:          req.CuratorID,
		CreatedBy:          userID,
		Code:               req.Code,
		MaxUses:            req.MaxUses,
		ExpiresAt:          req.ExpiresAt,
		AllowedEmailDomain: req.AllowedEmailDomain,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMaxUses), errors.Is(err, service.ErrCuratorNotFound):
			response.BadRequest(c, string(service.ReasonInvalid))
		case errors.Is(err, service.ErrCodeExists):
			response.Conflict(c, "duplicate")
		default:
			response.InternalError(c, string(service.ReasonOf(err)))
		}
		return
	}

	response.Success(c, gin.H{"invite_code": code})
}

// ListInviteCodes returns invite codes, optionally filtered by ?curator_id=.
func (h *AdminHandler) ListInviteCodes(c *gin.Context) {
	var curatorID *uuid.UUID
	if raw := c.Query("curator_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, string(service.ReasonInvalid))
			return
		}
		curatorID = &id
	}

	codes, err := h.inviteService.ListInviteCodes(c.Request.Context(), curatorID)
	if err != nil {
		response.InternalError(c, string(service.ReasonOf(err)))
		return
	}

	response.Success(c, gin.H{"invite_codes": codes})
}

func (h *AdminHandler) DeactivateInviteCode(c *gin.Context) {
	h.byID(c, h.inviteService.DeactivateInviteCode)
}

// RevokeGrant deletes a grant; tokens pointing at it stop working on their
// next request.
func (h *AdminHandler) RevokeGrant(c *gin.Context) {
	h.byID(c, h.inviteService.RevokeGrant)
}

func (h *AdminHandler) byID(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, string(service.ReasonInvalid))
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "not_found")
			return
		}
		response.InternalError(c, string(service.ReasonOf(err)))
		return
	}
	response.Success(c, nil)
}
