package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qpidash/internal/app/models/dto"
	"github.com/yigit/qpidash/internal/app/services"
)

// CurriculumController serves the static curriculum
type CurriculumController struct {
	curriculumService services.CurriculumService
}

// NewCurriculumController creates a new CurriculumController
func NewCurriculumController(curriculumService services.CurriculumService) *CurriculumController {
	return &CurriculumController{
		curriculumService: curriculumService,
	}
}

// GetCurriculum returns the subjects grouped by year and semester
// @Summary Get the curriculum
// @Description Lists every subject grouped by year and semester, without grades
// @Tags curriculum
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CurriculumResponse} "Curriculum retrieved successfully"
// @Router /curriculum [get]
func (c *CurriculumController) GetCurriculum(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.CurriculumResponse{
			Years:      c.curriculumService.Grouped(ctx),
			TotalUnits: c.curriculumService.TotalUnits(ctx),
			Subjects:   len(c.curriculumService.ListSubjects(ctx)),
		},
		Timestamp: time.Now(),
	})
}
