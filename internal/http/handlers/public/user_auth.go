package public

import (
	"time"

	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// VerifyOTPRequest 注册验证码校验请求
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// ResendOTPRequest 重发验证码请求
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserProfile 用户资料响应
type UserProfile struct {
	ID              uint       `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Role            string     `json:"role"`
	Photo           string     `json:"photo"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func buildUserProfile(user *models.User) UserProfile {
	return UserProfile{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		Role:            user.Role,
		Photo:           user.Photo,
		EmailVerifiedAt: user.EmailVerifiedAt,
		CreatedAt:       user.CreatedAt,
	}
}

// Register 用户注册，成功后向邮箱发送 OTP。
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "register failed")
		return
	}

	user, err := h.UserAuthService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "register failed")
		return
	}
	response.Success(c, gin.H{"user": buildUserProfile(user)})
}

// VerifyOTP 校验注册验证码并签发 Token
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.VerifyOTP(req.Email, req.Code)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "otp verify failed")
		return
	}
	response.Success(c, gin.H{
		"user":       buildUserProfile(user),
		"token":      token,
		"expires_at": expiresAt,
	})
}

// ResendOTP 重发注册验证码
func (h *Handler) ResendOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.UserAuthService.ResendOTP(req.Email); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "otp resend failed")
		return
	}
	response.Success(c, gin.H{"sent": true})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeUnauthorized, "login failed")
		return
	}
	response.Success(c, gin.H{
		"user":       buildUserProfile(user),
		"token":      token,
		"expires_at": expiresAt,
	})
}

// ForgotPassword 发送找回密码验证码
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "send reset code failed")
		return
	}

	if err := h.UserAuthService.SendResetCode(req.Email); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "send reset code failed")
		return
	}
	response.Success(c, gin.H{"sent": true})
}

// ResetPassword 重置密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.UserAuthService.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "reset password failed")
		return
	}
	response.Success(c, gin.H{"reset": true})
}

// Me 当前登录用户资料
func (h *Handler) Me(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "fetch profile failed")
		return
	}
	response.Success(c, gin.H{"user": buildUserProfile(user)})
}
