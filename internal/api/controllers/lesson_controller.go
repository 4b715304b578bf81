package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lingo/internal/models/request_models"
	"lingo/internal/services"
	"lingo/pkg/utils"
)

type LessonController struct {
	lessonService services.LessonServiceInterface
}

func NewLessonController(lessonService services.LessonServiceInterface) *LessonController {
	return &LessonController{
		lessonService: lessonService,
	}
}

// CreateLesson godoc
// @Summary Generate a new lesson
// @Description Metered for free accounts; premium accounts are unlimited
// @Tags Lessons
// @Accept json
// @Produce json
// @Param request body request_models.CreateLessonRequest true "Create Lesson Request"
// @Success 200 {object} response_models.LessonResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /lessons [post]
func (l *LessonController) CreateLesson(c *gin.Context) {

	var req request_models.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	accountID := c.GetString("user_id")
	if accountID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	lesson, err := l.lessonService.CreateLesson(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, lesson, "Lesson created successfully")
}

// CreateAudioLesson godoc
// @Summary Generate the audio narration for a lesson
// @Description Metered separately from lessons for free accounts
// @Tags Lessons
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} response_models.LessonResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /lessons/{lessonId}/audio [post]
func (l *LessonController) CreateAudioLesson(c *gin.Context) {

	lessonId := c.Param("lessonId")
	if lessonId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Lesson ID is required")
		return
	}

	accountID := c.GetString("user_id")
	if accountID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return
	}

	lesson, err := l.lessonService.CreateAudioLesson(c.Request.Context(), accountID, lessonId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, lesson, "Audio lesson requested successfully")
}

func (l *LessonController) GetLessonById(c *gin.Context) {

	lessonId := c.Param("lessonId")
	if lessonId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Lesson ID is required")
		return
	}

	lesson, err := l.lessonService.GetLessonById(c.Request.Context(), lessonId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, lesson, "Lesson fetched successfully")
}

func (l *LessonController) GetRelatedLessons(c *gin.Context) {

	lessonId := c.Param("lessonId")
	if lessonId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Lesson ID is required")
		return
	}

	lessons, err := l.lessonService.GetRelatedLessons(c.Request.Context(), lessonId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, lessons, "Related lessons fetched successfully")
}
