package api

import (
	"net/http"

	"budgeting/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 全局类别管理
type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// Create 创建类别
// @Summary 创建类别
// @Description 创建全局类别，名称唯一
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "类别名称"
// @Success 201 {object} MessageResponse "创建成功"
// @Failure 400 {object} ErrorResponse "参数错误或类别已存在"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err, "创建类别失败")
		return
	}
	Message(c, http.StatusCreated, "类别 "+category.Name+" 创建成功")
}

// List 列出全部类别
// @Summary 获取类别列表
// @Description 返回全部类别，顺序不保证
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category "类别列表"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "查询类别失败")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Delete 删除类别
// @Summary 删除类别
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param name path string true "类别名称"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "类别不存在"
// @Router /categories/{name} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.categories.Delete(c.Request.Context(), name); err != nil {
		respondError(c, err, "删除类别失败")
		return
	}
	Message(c, http.StatusOK, "类别 "+name+" 已删除")
}
