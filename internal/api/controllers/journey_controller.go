package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lingo/internal/models/request_models"
	"lingo/internal/services"
	"lingo/pkg/utils"
)

type JourneyController struct {
	journeyService services.JourneyServiceInterface
}

func NewJourneyController(journeyService services.JourneyServiceInterface) *JourneyController {
	return &JourneyController{
		journeyService: journeyService,
	}
}

// CreateJourney godoc
// @Summary Generate a new learning journey
// @Description Metered for free accounts; premium accounts are unlimited
// @Tags Journey
// @Accept json
// @Produce json
// @Param request body request_models.CreateJourneyRequest true "Create Journey Request"
// @Success 200 {object} response_models.JourneyDetailResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /journeys [post]
func (j *JourneyController) CreateJourney(c *gin.Context) {

	var req request_models.CreateJourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	accountID := c.GetString("user_id")
	if accountID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	journey, err := j.journeyService.CreateJourney(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, journey, "Journey created successfully")
}

// GetJourneyByUserId godoc
// @Summary Get journeys for the authenticated account
// @Tags Journey
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(5) minimum(1) maximum(100)
// @Success 200 {array} response_models.JourneyResponse
// @Security BearerAuth
// @Router /journeys [get]
func (j *JourneyController) GetJourneyByUserId(c *gin.Context) {

	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "5")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	accountID := c.GetString("user_id")

	journeys, err := j.journeyService.GetListOfJourneyByUserId(c.Request.Context(), page, pageSize, accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, journeys, "Journeys fetched successfully")
}

// GetDetailsInfoOfJourneyById godoc
// @Summary Get journey details by ID
// @Tags Journey
// @Produce json
// @Param journeyId path string true "Journey ID"
// @Success 200 {object} response_models.JourneyDetailResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /journeys/{journeyId} [get]
func (j *JourneyController) GetDetailsInfoOfJourneyById(c *gin.Context) {
	journeyId := c.Param("journeyId")
	if journeyId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Journey ID is required")
		return
	}

	journey, err := j.journeyService.GetDetailsInfoOfJourneyById(c.Request.Context(), journeyId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, journey, "Journey details fetched successfully")
}
