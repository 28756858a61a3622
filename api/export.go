package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"budgeting/middleware"
	"budgeting/service"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	budget *service.BudgetService
	export *service.ExportService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(budget *service.BudgetService, export *service.ExportService) *ExportHandler {
	return &ExportHandler{budget: budget, export: export}
}

// Export 导出当前用户的全部预算条目
// @Summary 导出预算条目
// @Description 导出为 Excel（默认）或 CSV，末行为合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Security BearerAuth
// @Param format query string false "导出格式 xlsx 或 csv" Enums(xlsx, csv)
// @Success 200 {file} file "导出文件"
// @Failure 400 {object} ErrorResponse "格式不支持"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "用户不存在"
// @Router /budget/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		BadRequest(c, "不支持的导出格式: "+format)
		return
	}

	user, items, err := h.budget.ListItems(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondError(c, err, "查询预算条目失败")
		return
	}

	var buf bytes.Buffer
	contentType := xlsxContentType
	if format == "csv" {
		contentType = csvContentType
		err = h.export.WriteCSV(&buf, user.Username, items)
	} else {
		err = h.export.WriteExcel(&buf, user.Username, items)
	}
	if err != nil {
		respondError(c, err, "生成导出文件失败")
		return
	}

	filename := fmt.Sprintf("budget_%s_%s.%s", user.Username, time.Now().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
