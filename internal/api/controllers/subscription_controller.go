package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lingo/internal/models/request_models"
	"lingo/internal/models/response_models"
	"lingo/internal/services"
	"lingo/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
	entitlements        services.EntitlementServiceInterface
	gate                services.AccessGateInterface
	reconciler          services.ReconcilerServiceInterface
}

func NewSubscriptionController(
	subscriptionService services.SubscriptionServiceInterface,
	entitlements services.EntitlementServiceInterface,
	gate services.AccessGateInterface,
	reconciler services.ReconcilerServiceInterface,
) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		entitlements:        entitlements,
		gate:                gate,
		reconciler:          reconciler,
	}
}

// Verify godoc
// @Summary Verify a Google Play purchase token and update entitlement
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.VerifySubscriptionRequest true "Verify Request"
// @Success 200 {object} response_models.SubscriptionResponse
// @Security BearerAuth
// @Router /subscriptions/verify [post]
func (s *SubscriptionController) Verify(c *gin.Context) {

	var request request_models.VerifySubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	accountID := c.GetString("user_id")
	if accountID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	sub, err := s.subscriptionService.VerifyAndSave(c.Request.Context(), accountID, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	ent, err := s.entitlements.Resolve(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SubscriptionResponse{
		IsPremium: ent.IsPremium,
		ExpiresAt: utils.FormatRFC3339(utils.FromUnixSeconds(sub.ExpiryTime)),
		Status:    string(sub.Status),
		ProductID: sub.ProductID,
		AutoRenew: sub.AutoRenewing,
	}, "Subscription verified successfully")
}

// Resync godoc
// @Summary Re-verify a stored purchase token against Google Play
// @Description Recovery path for reinstalls and missed webhooks
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.ResyncSubscriptionRequest true "Resync Request"
// @Success 200 {object} response_models.SubscriptionResponse
// @Security BearerAuth
// @Router /subscriptions/resync [post]
func (s *SubscriptionController) Resync(c *gin.Context) {

	var request request_models.ResyncSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	sub, err := s.subscriptionService.Resync(c.Request.Context(), request.PurchaseToken)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SubscriptionResponse{
		IsPremium: sub.Status == "active" || sub.Status == "grace_period",
		ExpiresAt: utils.FormatRFC3339(utils.FromUnixSeconds(sub.ExpiryTime)),
		Status:    string(sub.Status),
		ProductID: sub.ProductID,
		AutoRenew: sub.AutoRenewing,
	}, "Subscription resynced successfully")
}

// HandleGoogleWebhook consumes Pub/Sub pushed RTDN events. Pub/Sub retries
// on non-2xx, so only transient failures may return one; everything already
// applied or permanently unresolvable is acked with 200.
func (s *SubscriptionController) HandleGoogleWebhook(c *gin.Context) {

	var envelope request_models.PubSubEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		// Not a Pub/Sub envelope at all; redelivery cannot fix it.
		utils.RespondSuccess(c, nil, "ignored")
		return
	}

	err := s.reconciler.ProcessPubSubEnvelope(c.Request.Context(), envelope)
	if err != nil && errors.Is(err, utils.ErrVerificationTransient) {
		utils.RespondError(c, http.StatusServiceUnavailable, "verification temporarily unavailable")
		return
	}

	utils.RespondSuccess(c, nil, "processed")
}

// Me godoc
// @Summary Get current entitlement and usage for the authenticated account
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response_models.EntitlementResponse
// @Security BearerAuth
// @Router /subscriptions/me [get]
func (s *SubscriptionController) Me(c *gin.Context) {

	accountID := c.GetString("user_id")
	if accountID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	ent, err := s.entitlements.Resolve(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	usage, err := s.gate.UsageSnapshot(c.Request.Context(), ent, time.Now().UTC())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.EntitlementResponse{
		IsPremium: ent.IsPremium,
		ExpiresAt: utils.FormatRFC3339(ent.Expiry),
		Usage:     usage,
	}, "Entitlement fetched successfully")
}
