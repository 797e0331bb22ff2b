package admin

import (
	"strconv"

	handlershared "github.com/diecast-shop/internal/http/handlers/shared"
	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/repository"
	"github.com/diecast-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminUserRequest 后台用户创建/更新请求
type AdminUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	users, total, err := h.UserAdminService.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Role:     c.Query("role"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "user list failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": users}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetUser 用户详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid user id")
	if !ok {
		return
	}

	user, err := h.UserAdminService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "user fetch failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// CreateUser 创建用户
func (h *Handler) CreateUser(c *gin.Context) {
	var req AdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, err := h.UserAdminService.Create(service.AdminUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "user create failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// UpdateUser 更新用户
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid user id")
	if !ok {
		return
	}
	var req AdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, err := h.UserAdminService.Update(id, service.AdminUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "user update failed")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// DeleteUser 删除用户（不允许删除自己）
func (h *Handler) DeleteUser(c *gin.Context) {
	uid, ok := getAdminUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "invalid user id")
	if !ok {
		return
	}
	if id == uid {
		respondError(c, response.CodeBadRequest, "cannot delete current user", nil)
		return
	}

	if err := h.UserAdminService.Delete(id); err != nil {
		respondWithMappedError(c, err, adminUserErrorRules, response.CodeInternal, "user delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
