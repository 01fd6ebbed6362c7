package service

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
)

// ReportService renders a user's test history as a PDF.
type ReportService interface {
	GenerateReport(userID string) ([]byte, error)
}

type reportService struct {
	userRepo   repository.UserRepository
	resultRepo repository.ResultRepository
}

func NewReportService(userRepo repository.UserRepository, resultRepo repository.ResultRepository) ReportService {
	return &reportService{userRepo: userRepo, resultRepo: resultRepo}
}

var reportColumns = []struct {
	title string
	width float64
}{
	{"Date", 45},
	{"Category", 35},
	{"Difficulty", 30},
	{"Correct", 30},
	{"Score", 30},
}

func (s *reportService) GenerateReport(userID string) ([]byte, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	results, err := s.resultRepo.GetResultsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return renderReport(user, results, time.Now())
}

func renderReport(user *model.User, results []model.Result, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("AptiGenius results", false)
	pdf.AddPage()
	// core fonts are cp1252; names and emails are user input
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "AptiGenius - Test Report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("%s %s <%s>", user.FirstName, user.LastName, user.Email)))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated "+generated.Format("2006-01-02 15:04"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 232, 250)
	for _, col := range reportColumns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range results {
		row := []string{
			r.CreatedAt.Format("2006-01-02 15:04"),
			orDash(string(r.Category)),
			orDash(string(r.Difficulty)),
			fmt.Sprintf("%d / %d", r.CorrectAnswers, r.TotalQuestions),
			fmt.Sprintf("%.2f%%", r.Score),
		}
		for i, col := range reportColumns {
			pdf.CellFormat(col.width, 7, row[i], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	stats := ComputeStats(results)
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Tests taken: %d   Average score: %.2f%%   Latest score: %.2f%%",
		stats.TotalTests, stats.AvgScore, stats.LatestScore))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
