package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/easynatorics-api/internal/handler/dto"
	"github.com/yourusername/easynatorics-api/internal/handler/helper"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/internal/service"
)

// datasetHeaders - столбцы экспорта (как в исходной таблице исследования)
var datasetHeaders = []string{
	"ID", "Nama", "Kelas", "Usia", "Pengalaman",
	"Kecemasan Awal", "Kecemasan Akhir", "Skor Pre-Test", "Skor Post-Test",
	"Soal Dikerjakan", "Soal Benar", "Modul Selesai", "Testimonial",
}

// ResearchHandler обрабатывает запросы исследователя
type ResearchHandler struct {
	research     *service.ResearchService
	auth         *service.ResearcherAuthService
	participants *service.ParticipantService
	logger       *logger.Logger
}

// NewResearchHandler создает обработчик исследователя
func NewResearchHandler(
	research *service.ResearchService,
	auth *service.ResearcherAuthService,
	participants *service.ParticipantService,
	log *logger.Logger,
) *ResearchHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResearchHandler{research: research, auth: auth, participants: participants, logger: log}
}

// Login выдаёт JWT исследователя по паролю
func (h *ResearchHandler) Login(c *gin.Context) {
	var req dto.ResearcherLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// ListParticipants возвращает строки датасета
func (h *ResearchHandler) ListParticipants(c *gin.Context) {
	rows, err := h.research.Participants(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": rows, "total": len(rows)})
}

// GetParticipant возвращает полную запись участника и журнал попыток
func (h *ResearchHandler) GetParticipant(c *gin.Context) {
	id := c.Param("id")

	record, err := h.research.Participant(c.Request.Context(), id)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}

	attempts, err := h.participants.AttemptHistory(c.Request.Context(), id)
	if err != nil {
		// журнал вспомогательный, запись участника отдаём и без него
		h.logger.Warn("[ResearchHandler] Failed to load attempt history", "participant_id", id, "error", err)
	}
	c.JSON(http.StatusOK, dto.ParticipantDetailResponse{Record: record, Attempts: attempts})
}

// Summary возвращает парные t-тесты по тревожности и баллам
func (h *ResearchHandler) Summary(c *gin.Context) {
	summary, err := h.research.Summary(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export выгружает датасет в CSV или XLSX (?format=csv|xlsx)
func (h *ResearchHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx", "error_type": "invalid_request"})
		return
	}

	rows, err := h.research.Participants(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("easynatorics_dataset_%s", time.Now().Format("2006-01-02"))
	h.logger.Info("[ResearchHandler] Dataset exported", "format", format, "rows", len(rows))

	switch format {
	case "xlsx":
		h.exportXLSX(c, rows, filename)
	default:
		h.exportCSV(c, rows, filename)
	}
}

func datasetRecord(r service.DatasetRow) []string {
	return []string{
		r.ParticipantID,
		sanitizeForExcel(r.Name),
		r.Grade,
		strconv.Itoa(r.Age),
		r.Experience,
		helper.FormatFloat(r.AnxietyPre),
		helper.FormatFloat(r.AnxietyPost),
		helper.FormatInt(r.TestPre),
		helper.FormatInt(r.TestPost),
		strconv.Itoa(r.ProblemsAttempted),
		strconv.Itoa(r.ProblemsCorrect),
		strconv.Itoa(r.CompletedModules),
		sanitizeForExcel(r.Testimonial),
	}
}

// exportCSV экспортирует датасет в CSV с правильным экранированием спецсимволов
func (h *ResearchHandler) exportCSV(c *gin.Context, rows []service.DatasetRow, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write(datasetHeaders); err != nil {
		h.logger.Error("[ResearchHandler] Failed to write CSV header", "error", err)
		return
	}
	for _, r := range rows {
		if err := writer.Write(datasetRecord(r)); err != nil {
			h.logger.Error("[ResearchHandler] Failed to write CSV row", "participant_id", r.ParticipantID, "error", err)
			return
		}
	}
}

// exportXLSX экспортирует датасет в Excel с использованием StreamWriter
func (h *ResearchHandler) exportXLSX(c *gin.Context, rows []service.DatasetRow, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Dataset"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		h.logger.Error("[ResearchHandler] Failed to rename sheet", "error", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		h.logger.Error("[ResearchHandler] Failed to create StreamWriter", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(datasetHeaders))
	for i, hdr := range datasetHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		h.logger.Error("[ResearchHandler] Failed to write headers", "error", err)
	}

	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			r.ParticipantID,
			sanitizeForExcel(r.Name),
			r.Grade,
			r.Age,
			r.Experience,
			optionalFloat(r.AnxietyPre),
			optionalFloat(r.AnxietyPost),
			optionalInt(r.TestPre),
			optionalInt(r.TestPost),
			r.ProblemsAttempted,
			r.ProblemsCorrect,
			r.CompletedModules,
			sanitizeForExcel(r.Testimonial),
		}
		if err := sw.SetRow(cell, row); err != nil {
			h.logger.Error("[ResearchHandler] Failed to write row", "row", i+2, "error", err)
		}
	}

	if err := sw.Flush(); err != nil {
		h.logger.Error("[ResearchHandler] StreamWriter flush failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("[ResearchHandler] Failed to write Excel to response", "error", err)
	}
}

// optionalFloat оставляет ячейку пустой, если значения нет
func optionalFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
