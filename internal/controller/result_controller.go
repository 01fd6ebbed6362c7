package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aptigenius-backend/internal/service"
	"aptigenius-backend/utilities"
)

type ResultController struct {
	ResultService service.ResultService
	ReportService service.ReportService
}

func NewResultController(resultService service.ResultService, reportService service.ReportService) *ResultController {
	return &ResultController{ResultService: resultService, ReportService: reportService}
}

type submitRequest struct {
	Score          *float64 `json:"score" binding:"required"`
	TotalQuestions int      `json:"totalQuestions" binding:"required"`
	CorrectAnswers *int     `json:"correctAnswers" binding:"required"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
}

func (rc *ResultController) SubmitResult(c *gin.Context) {
	var req submitRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := rc.ResultService.SubmitResult(utilities.CurrentUserID(c), service.SubmitInput{
		Score:          *req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: *req.CorrectAnswers,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (rc *ResultController) GetMyResults(c *gin.Context) {
	results, err := rc.ResultService.GetMyResults(utilities.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (rc *ResultController) GetResult(c *gin.Context) {
	result, err := rc.ResultService.GetResult(utilities.CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rc *ResultController) GetStats(c *gin.Context) {
	stats, err := rc.ResultService.GetStats(utilities.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DownloadReport streams the caller's results as a PDF attachment.
func (rc *ResultController) DownloadReport(c *gin.Context) {
	pdf, err := rc.ReportService.GenerateReport(utilities.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("aptigenius-report-%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (rc *ResultController) GetAllResults(c *gin.Context) {
	results, err := rc.ResultService.GetAllResults()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (rc *ResultController) GetOverview(c *gin.Context) {
	overview, err := rc.ResultService.GetOverview()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
