package admin

import (
	"github.com/diecast-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RolePolicyRequest 角色策略请求
type RolePolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// UserRolesRequest 用户角色设置请求
type UserRolesRequest struct {
	Roles []string `json:"roles"`
}

// ListRoles 角色列表
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "role list failed", err)
		return
	}
	response.Success(c, gin.H{"items": roles})
}

// GetRolePolicies 角色策略列表
func (h *Handler) GetRolePolicies(c *gin.Context) {
	policies, err := h.AuthzService.GetRolePolicies(c.Param("role"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "role policies fetch failed", err)
		return
	}
	response.Success(c, gin.H{"items": policies})
}

// GrantRolePolicy 为角色授予策略
func (h *Handler) GrantRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "grant policy failed", err)
		return
	}
	response.Success(c, gin.H{"granted": true})
}

// RevokeRolePolicy 撤销角色策略
func (h *Handler) RevokeRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "revoke policy failed", err)
		return
	}
	response.Success(c, gin.H{"revoked": true})
}

// SetUserRoles 覆盖设置用户角色
func (h *Handler) SetUserRoles(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid user id")
	if !ok {
		return
	}
	var req UserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.AuthzService.SetUserRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "set user roles failed", err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// GetUserRoles 查询用户角色
func (h *Handler) GetUserRoles(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid user id")
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(id)
	if err != nil {
		respondError(c, response.CodeBadRequest, "get user roles failed", err)
		return
	}
	response.Success(c, gin.H{"items": roles})
}
