package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"budgeting/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportService 将预算条目导出为 Excel / CSV
type ExportService struct{}

// NewExportService 创建导出服务
func NewExportService() *ExportService {
	return &ExportService{}
}

var exportHeaders = []string{"ID", "用户名", "描述", "金额", "创建时间"}

func exportTotal(items []models.BudgetItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return models.RoundAmount(total)
}

// WriteExcel 生成 xlsx 并写入 w，末行为合计
func (s *ExportService) WriteExcel(w io.Writer, username string, items []models.BudgetItem) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "预算条目"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "B", 15)
	_ = f.SetColWidth(sheetName, "C", "C", 30)
	_ = f.SetColWidth(sheetName, "D", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "E", 20)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, item := range items {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), item.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), username)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), item.Description)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), models.RoundAmount(item.Amount).InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), item.CreatedAt.Format(exportTimeLayout))
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), dataStyle)
	}

	summaryRow := len(items) + 2
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	_ = f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), exportTotal(items).InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(items)))
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow), summaryStyle)

	return f.Write(w)
}

// WriteCSV 生成带 BOM 的 CSV 并写入 w，末行为合计
func (s *ExportService) WriteCSV(w io.Writer, username string, items []models.BudgetItem) error {
	// BOM 便于 Excel 正确识别中文
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.ID,
			username,
			item.Description,
			models.RoundAmount(item.Amount).StringFixed(models.AmountScale),
			item.CreatedAt.Format(exportTimeLayout),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"合计", "", "", exportTotal(items).StringFixed(models.AmountScale), fmt.Sprintf("共 %d 条记录", len(items))}); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}
