package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aptigenius-backend/internal/service"
)

type QuestionController struct {
	QuestionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

type questionRequest struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
}

func (r questionRequest) input() service.QuestionInput {
	return service.QuestionInput{
		QuestionText:  r.QuestionText,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Category:      r.Category,
		Difficulty:    r.Difficulty,
	}
}

// GetRandomQuestions serves ?category=&difficulty=&limit= and answers an
// empty array when nothing matches.
func (qc *QuestionController) GetRandomQuestions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: limit must be a number"})
			return
		}
		limit = n
	}

	questions, err := qc.QuestionService.Sample(service.SampleRequest{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Limit:      limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (qc *QuestionController) GetAllQuestions(c *gin.Context) {
	questions, err := qc.QuestionService.GetAllQuestions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (qc *QuestionController) CreateQuestion(c *gin.Context) {
	var req questionRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := qc.QuestionService.CreateQuestion(req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (qc *QuestionController) UpdateQuestion(c *gin.Context) {
	var req questionRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := qc.QuestionService.UpdateQuestion(c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (qc *QuestionController) DeleteQuestion(c *gin.Context) {
	if err := qc.QuestionService.DeleteQuestion(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}
