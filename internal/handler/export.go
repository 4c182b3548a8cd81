package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"clarifi/internal/models"
	"clarifi/internal/service"
	"clarifi/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Transactions"

var exportHeaders = []string{"Date", "Type", "Category", "Description", "Amount"}

// ExportHandler 导出当前用户的交易为 CSV / XLSX
type ExportHandler struct {
	Svc *service.TransactionService
	Now func() time.Time
}

func NewExportHandler(svc *service.TransactionService) *ExportHandler {
	return &ExportHandler{Svc: svc, Now: time.Now}
}

func exportRow(t *models.Transaction) []string {
	return []string{
		t.Date.Format("2006-01-02"),
		string(t.Type),
		t.Category,
		t.Description,
		util.FormatAmount(t.Amount),
	}
}

// Export ?format=csv|xlsx，默认 csv
func (h *ExportHandler) Export(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		_ = c.Error(util.NewValidationError("format", "must be csv or xlsx"))
		return
	}

	txs, err := h.Svc.List(c.Request.Context(), user.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.%s", h.Now().Format("20060102"), format)
	if format == "xlsx" {
		h.writeXLSX(c, filename, txs)
		return
	}
	h.writeCSV(c, filename, txs)
}

func (h *ExportHandler) writeCSV(c *gin.Context, filename string, txs []models.Transaction) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	// UTF-8 BOM（让 Excel 正确识别编码）
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(exportHeaders)
	for i := range txs {
		_ = writer.Write(exportRow(&txs[i]))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = c.Error(err)
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, filename string, txs []models.Transaction) {
	f := excelize.NewFile()
	defer f.Close()

	// 默认的 Sheet1 改名，避免多出一个空表
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		_ = c.Error(fmt.Errorf("create sheet: %w", err))
		return
	}

	for i, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, title)
	}

	for idx := range txs {
		t := &txs[idx]
		row := idx + 2
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), t.Date.Format("2006-01-02"))
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), string(t.Type))
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), t.Category)
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), t.Description)
		amount, _ := t.Amount.Float64()
		_ = f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), amount)
	}

	// 设置列宽
	_ = f.SetColWidth(exportSheet, "A", "A", 12)
	_ = f.SetColWidth(exportSheet, "B", "B", 10)
	_ = f.SetColWidth(exportSheet, "C", "C", 18)
	_ = f.SetColWidth(exportSheet, "D", "D", 36)
	_ = f.SetColWidth(exportSheet, "E", "E", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		_ = c.Error(fmt.Errorf("write xlsx: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
