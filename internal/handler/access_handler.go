package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/metrics"
	"innercloset/gatekeeper/internal/model"
	"innercloset/gatekeeper/internal/service"
	jwtpkg "innercloset/gatekeeper/pkg/jwt"
	"innercloset/gatekeeper/pkg/response"
)

type AccessHandler struct {
	verifier  service.CodeVerifier
	issuer    service.GrantIssuer
	evaluator service.AccessEvaluator
	codec     *jwtpkg.Codec
	metrics   *metrics.Metrics
	cookie    CookieSettings
	// redirect is a path template; {slug} is replaced with the curator slug.
	redirect    string
	redeemDelay func() time.Duration
	logger      *zap.Logger
}

type AccessHandlerConfig struct {
	Cookie       CookieSettings
	RedirectPath string
	RedeemDelay  func() time.Duration
}

func NewAccessHandler(
	verifier service.CodeVerifier,
	issuer service.GrantIssuer,
	evaluator service.AccessEvaluator,
	codec *jwtpkg.Codec,
	m *metrics.Metrics,
	cfg AccessHandlerConfig,
	logger *zap.Logger,
) *AccessHandler {
	delay := cfg.RedeemDelay
	if delay == nil {
		delay = func() time.Duration { return 0 }
	}
	return &AccessHandler{
		verifier:    verifier,
		issuer:      issuer,
		evaluator:   evaluator,
		codec:       codec,
		metrics:     m,
		cookie:      cfg.Cookie,
		redirect:    cfg.RedirectPath,
		redeemDelay: delay,
		logger:      logger.Named("access_handler"),
	}
}

type VerifyRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

type RedeemRequest struct {
	Code string `json:"code"`
}

func (h *AccessHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordVerification(string(service.ReasonInvalid))
		response.BadRequest(c, string(service.ReasonInvalid))
		return
	}

	verified, err := h.verifier.Verify(c.Request.Context(), req.Code, req.Email)
	if err != nil {
		h.reject(c, err, "verify", "", req.Code, h.metrics.RecordVerification)
		return
	}

	h.metrics.RecordVerification("ok")
	response.Success(c, gin.H{
		"curator": verified.Curator,
		"code":    verified.Code,
	})
}

func (h *AccessHandler) Redeem(c *gin.Context) {
	// Every attempt, successful or not, waits a little to slow code guessing.
	if !h.pause(c) {
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordRedemption(string(service.ReasonInvalid))
		response.BadRequest(c, string(service.ReasonInvalid))
		return
	}

	userID, email := sessionUser(c)
	redemption, err := h.issuer.Redeem(c.Request.Context(), service.RedeemRequest{
		Code:   req.Code,
		UserID: userID,
		Email:  email,
	})
	if err != nil {
		h.reject(c, err, "redeem", userID, req.Code, h.metrics.RecordRedemption)
		return
	}

	grant := redemption.Grant
	token, err := h.codec.Mint(jwtpkg.Grant{
		GrantID:   grant.ID,
		CuratorID: grant.CuratorID,
		Code:      grant.Code,
	})
	if err != nil {
		h.logger.Error("mint access token failed",
			zap.String("user_id", userID),
			zap.String("grant_id", grant.ID.String()),
			zap.Error(err),
		)
		h.metrics.RecordRedemption(string(service.ReasonServerError))
		response.InternalError(c, string(service.ReasonServerError))
		return
	}
	h.cookie.set(c, token)

	outcome := "existing"
	if redemption.Created {
		outcome = "created"
	}
	h.metrics.RecordRedemption(outcome)
	response.Success(c, gin.H{
		"redirect": strings.ReplaceAll(h.redirect, "{slug}", redemption.Curator.Slug),
		"grant_id": grant.ID,
		"curator":  redemption.Curator,
	})
}

// Status reports whether the requester can see the curator's inner tier and
// clears the cookie when it no longer unlocks anything.
func (h *AccessHandler) Status(c *gin.Context) {
	curatorID, err := uuid.Parse(c.Param("curator_id"))
	if err != nil {
		response.BadRequest(c, string(service.ReasonInvalid))
		return
	}

	decision := h.decide(c, curatorID)
	response.Success(c, gin.H{"access": decision.Granted})
}

// decide runs the evaluator for the current request. Errors deny.
func (h *AccessHandler) decide(c *gin.Context, curatorID uuid.UUID) service.Decision {
	userID, _ := sessionUser(c)
	decision, err := h.evaluator.HasAccess(c.Request.Context(), service.AccessRequest{
		Token:     h.cookie.read(c),
		UserID:    userID,
		CuratorID: curatorID,
	})
	if err != nil {
		h.logger.Warn("access check failed closed",
			zap.String("user_id", userID),
			zap.String("curator_id", curatorID.String()),
			zap.Error(err),
		)
		decision = service.Decision{StaleToken: decision.StaleToken}
	}
	if decision.StaleToken {
		h.cookie.clear(c)
	}
	h.metrics.RecordAccess(decision.Granted, string(decision.Source))
	return decision
}

func (h *AccessHandler) reject(c *gin.Context, err error, op, userID, rawCode string, record func(string)) {
	reason := service.ReasonOf(err)
	record(string(reason))

	status := http.StatusBadRequest
	switch reason {
	case service.ReasonUnauthorized:
		status = http.StatusUnauthorized
	case service.ReasonDatabaseError, service.ReasonServerError:
		status = http.StatusInternalServerError
		h.logger.Error(op+" failed",
			zap.String("user_id", userID),
			zap.String("code", model.NormalizeCode(rawCode)),
			zap.Error(err),
		)
	}
	response.Error(c, status, string(reason))
}

func (h *AccessHandler) pause(c *gin.Context) bool {
	d := h.redeemDelay()
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.Request.Context().Done():
		c.Abort()
		return false
	}
}
