package api

import (
	"net/http"
	"time"

	"budgeting/middleware"

	"github.com/gin-gonic/gin"
)

const summaryDateLayout = "2006-01-02"

// Summary 获取当前用户的条目汇总
// @Summary 获取预算汇总
// @Description 按创建时间范围统计当前用户的条目数与金额合计，正数计入收入，负数计入支出。不传 start_time/end_time 则统计全部时间。
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "开始时间 (YYYY-MM-DD)，例如 2024-01-01"
// @Param end_time query string false "结束时间 (YYYY-MM-DD)，例如 2024-12-31"
// @Success 200 {object} models.BudgetSummary "汇总结果"
// @Failure 400 {object} ErrorResponse "时间格式错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /budget/summary [get]
func (h *BudgetHandler) Summary(c *gin.Context) {
	var from, to time.Time
	if s := c.Query("start_time"); s != "" {
		t, err := time.ParseInLocation(summaryDateLayout, s, time.Local)
		if err != nil {
			BadRequest(c, "开始时间格式错误，应为: 2006-01-02")
			return
		}
		from = t
	}
	if s := c.Query("end_time"); s != "" {
		t, err := time.ParseInLocation(summaryDateLayout, s, time.Local)
		if err != nil {
			BadRequest(c, "结束时间格式错误，应为: 2006-01-02")
			return
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}

	summary, err := h.budget.Summary(c.Request.Context(), middleware.GetCurrentUserID(c), from, to)
	if err != nil {
		respondError(c, err, "统计失败")
		return
	}
	c.JSON(http.StatusOK, summary)
}
