package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diecast-shop/internal/authz"
	"github.com/diecast-shop/internal/cache"
	"github.com/diecast-shop/internal/config"
	adminhandlers "github.com/diecast-shop/internal/http/handlers/admin"
	publichandlers "github.com/diecast-shop/internal/http/handlers/public"
	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/logger"
	"github.com/diecast-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "dcs"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/verify-otp", publicHandler.VerifyOTP)
			auth.POST("/resend-otp", publicHandler.ResendOTP)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/forgot-password", publicHandler.ForgotPassword)
			auth.POST("/reset-password", publicHandler.ResetPassword)
			auth.GET("/captcha", publicHandler.GetCaptcha)
		}

		// 公开商品目录
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/products/:id/reviews", publicHandler.ListProductReviews)
		apiV1.GET("/couriers", publicHandler.ListCouriers)

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Me)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PATCH("/cart/items/:id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)

			user.POST("/checkout", publicHandler.InitiateCheckout)
			user.POST("/checkout/confirm", publicHandler.ConfirmCheckout)

			user.GET("/orders", publicHandler.ListMyOrders)
			user.GET("/orders/:id", publicHandler.GetMyOrder)
			user.POST("/orders/:id/cancel-request", publicHandler.RequestCancelOrder)
			user.POST("/orders/:id/cancel-accept", publicHandler.AcceptCancelOrder)
			user.POST("/orders/:id/confirm-done", publicHandler.ConfirmOrderDone)

			user.GET("/addresses", publicHandler.ListAddresses)
			user.POST("/addresses", publicHandler.CreateAddress)
			user.PUT("/addresses/:id", publicHandler.UpdateAddress)
			user.POST("/addresses/:id/primary", publicHandler.SetPrimaryAddress)
			user.DELETE("/addresses/:id", publicHandler.DeleteAddress)

			user.POST("/products/:id/reviews", publicHandler.SubmitReview)
		}

		// 管理端接口（admin 角色或 casbin 授权的受限角色）
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), AdminRBACMiddleware(c.AuthzService))
		{
			// 看板
			admin.GET("/stats", adminHandler.GetStatsSummary)

			// 订单管理
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id/items", adminHandler.GetOrderItems)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/orders/:id/cancel-request", adminHandler.RequestCancelOrder)
			admin.POST("/orders/:id/cancel-accept", adminHandler.AcceptCancelOrder)

			// 商品管理
			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			// 配送方式管理
			admin.GET("/couriers", adminHandler.ListCouriers)
			admin.POST("/couriers", adminHandler.CreateCourier)
			admin.PUT("/couriers/:id", adminHandler.UpdateCourier)
			admin.DELETE("/couriers/:id", adminHandler.DeleteCourier)

			// 用户管理
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.POST("/users", adminHandler.CreateUser)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			// 权限管理
			admin.GET("/authz/roles", adminHandler.ListRoles)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantRolePolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeRolePolicy)
			admin.GET("/authz/users/:id/roles", adminHandler.GetUserRoles)
			admin.PUT("/authz/users/:id/roles", adminHandler.SetUserRoles)
			admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
