package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusShipping  = "shipping"
	OrderStatusDone      = "done"
	OrderStatusCancelled = "cancelled"
	// 历史数据中的旧取消状态，读取时归一化为 cancelled
	OrderStatusLegacyHistory = "history"
)

// 取消申请发起方常量
const (
	CancelActorUser  = "user"
	CancelActorAdmin = "admin"
)

// 用户角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 支付网关交易状态常量（Midtrans）
const (
	PaymentStatusSettlement = "settlement"
	PaymentStatusCapture    = "capture"
	PaymentStatusSuccess    = "success"
	PaymentStatusPendingPay = "pending"
	PaymentStatusDeny       = "deny"
	PaymentStatusExpire     = "expire"
	PaymentStatusCancel     = "cancel"
)

// 验证码用途常量
const (
	VerifyPurposeRegister = "register"
	VerifyPurposeReset    = "reset"
)

// 队列常量
const (
	QueueDefault         = "default"
	TaskOrderStatusEmail = "order:status_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "dcs"
)

// 业务上限与编号前缀常量
const (
	OrderCodePrefix  = "ORD"
	PaymentRefPrefix = "ORDER"
	DefaultPageSize  = 20
	MaxPageSize      = 100
	MaxCartQuantity  = 999
	ReviewRatingMin  = 1
	ReviewRatingMax  = 5
)

// 邮箱验证码常量
const (
	OTPCodeLength            = 6
	OTPExpireMinutes         = 10
	OTPResendCooldownSeconds = 60
)

// 币种常量
const (
	SiteCurrencyDefault = "IDR"
)
