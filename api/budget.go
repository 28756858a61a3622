package api

import (
	"errors"
	"io"
	"net/http"

	"budgeting/middleware"
	"budgeting/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler 预算条目处理器，所有操作只作用于当前用户的条目
type BudgetHandler struct {
	budget *service.BudgetService
}

// NewBudgetHandler 创建预算条目处理器
func NewBudgetHandler(budget *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budget: budget}
}

// BudgetCreateRequest 创建请求，amount 缺省为 0
type BudgetCreateRequest struct {
	Description string           `json:"description" binding:"max=1000"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number"`
}

// BudgetUpdateRequest 部分更新请求，未提供的字段保持原值
type BudgetUpdateRequest struct {
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number"`
}

// AdjustRequest 增减金额请求
type AdjustRequest struct {
	Amount *decimal.Decimal `json:"amount" swaggertype:"number"`
}

// Create 创建预算条目
// @Summary 创建预算条目
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetCreateRequest true "条目信息"
// @Success 201 {object} models.BudgetItemView "创建成功"
// @Failure 400 {object} ErrorResponse "参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "用户不存在"
// @Router /budget [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req BudgetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.budget.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req.Description, req.Amount)
	if err != nil {
		respondError(c, err, "创建预算条目失败")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// List 列出当前用户的预算条目
// @Summary 获取预算条目列表
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BudgetItemView "条目列表"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /budget [get]
func (h *BudgetHandler) List(c *gin.Context) {
	views, err := h.budget.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondError(c, err, "查询预算条目失败")
		return
	}
	c.JSON(http.StatusOK, views)
}

// Get 获取单个预算条目
// @Summary 获取预算条目
// @Description 优先读缓存，未命中时查库并回填
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path string true "条目 ID"
// @Success 200 {object} models.BudgetItemView "条目"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "条目不存在"
// @Router /budget/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	view, err := h.budget.Get(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "查询预算条目失败")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update 部分更新预算条目
// @Summary 更新预算条目
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "条目 ID"
// @Param request body BudgetUpdateRequest true "要修改的字段"
// @Success 200 {object} models.BudgetItemView "更新后的条目"
// @Failure 400 {object} ErrorResponse "参数错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "条目不存在"
// @Router /budget/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	var req BudgetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.budget.Update(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), service.UpdateInput{
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		respondError(c, err, "更新预算条目失败")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete 删除预算条目
// @Summary 删除预算条目
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path string true "条目 ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "条目不存在"
// @Router /budget/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	if err := h.budget.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "删除预算条目失败")
		return
	}
	Message(c, http.StatusOK, "预算条目已删除")
}

// Add 增加金额
// @Summary 增加金额
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "条目 ID"
// @Param request body AdjustRequest true "增加的金额"
// @Success 200 {object} models.BudgetItemView "调整后的条目"
// @Failure 400 {object} ErrorResponse "缺少金额"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "条目不存在"
// @Router /budget/{id}/add [post]
func (h *BudgetHandler) Add(c *gin.Context) {
	h.adjust(c, service.DirectionAdd)
}

// Subtract 减少金额，允许结果为负
// @Summary 减少金额
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "条目 ID"
// @Param request body AdjustRequest true "减少的金额"
// @Success 200 {object} models.BudgetItemView "调整后的条目"
// @Failure 400 {object} ErrorResponse "缺少金额"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "条目不存在"
// @Router /budget/{id}/subtract [post]
func (h *BudgetHandler) Subtract(c *gin.Context) {
	h.adjust(c, service.DirectionSubtract)
}

func (h *BudgetHandler) adjust(c *gin.Context, dir service.Direction) {
	var req AdjustRequest
	// 请求体为空时按缺少金额处理，由服务层先判断条目是否存在
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			BadRequest(c, "参数错误: "+err.Error())
			return
		}
	}

	view, err := h.budget.Adjust(c.Request.Context(), middleware.GetCurrentUserID(c), c.Param("id"), req.Amount, dir)
	if err != nil {
		respondError(c, err, "调整金额失败")
		return
	}
	c.JSON(http.StatusOK, view)
}
