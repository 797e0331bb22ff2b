package provider

import (
	"github.com/diecast-shop/internal/authz"
	"github.com/diecast-shop/internal/cache"
	"github.com/diecast-shop/internal/config"
	"github.com/diecast-shop/internal/logger"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/payment/midtrans"
	"github.com/diecast-shop/internal/queue"
	"github.com/diecast-shop/internal/repository"
	"github.com/diecast-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo            repository.UserRepository
	EmailVerifyCodeRepo repository.EmailVerifyCodeRepository
	ProductRepo         repository.ProductRepository
	CartRepo            repository.CartRepository
	OrderRepo           repository.OrderRepository
	AddressRepo         repository.AddressRepository
	CourierRepo         repository.CourierRepository
	ReviewRepo          repository.ReviewRepository
	StatsRepo           repository.StatsRepository

	// Services
	AuthzService     *authz.Service
	UserAuthService  *service.UserAuthService
	UserAdminService *service.UserAdminService
	EmailService     *service.EmailService
	CaptchaService   *service.CaptchaService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
	CheckoutService  *service.CheckoutService
	CourierService   *service.CourierService
	AddressService   *service.AddressService
	ReviewService    *service.ReviewService
	StatsService     *service.StatsService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.EmailVerifyCodeRepo = repository.NewEmailVerifyCodeRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.CourierRepo = repository.NewCourierRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.StatsRepo = repository.NewStatsRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.EmailVerifyCodeRepo, c.EmailService)
	c.UserAdminService = service.NewUserAdminService(c.Config, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.QueueClient)
	c.CheckoutService = service.NewCheckoutService(c.CartRepo, c.OrderRepo, c.ProductRepo, c.UserRepo, c.buildPaymentGateway(), c.QueueClient)
	c.CourierService = service.NewCourierService(c.CourierRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.StatsService = service.NewStatsService(c.StatsRepo)
}

// buildPaymentGateway 按配置构建 Midtrans Snap 客户端；未配置密钥时返回 nil，
// 结算入口会以支付未配置错误拒绝。
func (c *Container) buildPaymentGateway() *midtrans.Client {
	mc := c.Config.Payment.Midtrans
	gateway, err := midtrans.NewClient(midtrans.Config{
		ServerKey:  mc.ServerKey,
		Production: mc.Production,
		BaseURL:    mc.BaseURL,
		TimeoutSec: mc.TimeoutSec,
	})
	if err != nil {
		logger.Warnw("provider_payment_gateway_disabled", "error", err)
		return nil
	}
	return gateway
}
