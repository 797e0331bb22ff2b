package service

import (
	"strings"
	"sync"

	"github.com/diecast-shop/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 图片验证码服务，注册与找回密码前置校验。
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 是否启用验证码
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	store := s.ensureImageStore()
	driver := base64Captcha.NewDriverString(
		resolveCaptchaHeight(s.cfg),
		resolveCaptchaWidth(s.cfg),
		s.cfg.NoiseCount,
		s.cfg.ShowLine,
		resolveCaptchaLength(s.cfg),
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, store)
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}

	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 校验验证码（未启用时直接放行）
func (s *CaptchaService) Verify(captchaID, captchaCode string) error {
	if !s.Enabled() {
		return nil
	}
	captchaID = strings.TrimSpace(captchaID)
	captchaCode = strings.TrimSpace(captchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaInvalid
	}
	store := s.ensureImageStore()
	if !store.Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureImageStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore == nil {
		s.imageStore = base64Captcha.DefaultMemStore
	}
	return s.imageStore
}

func resolveCaptchaHeight(cfg config.CaptchaConfig) int {
	if cfg.Height <= 0 {
		return 60
	}
	return cfg.Height
}

func resolveCaptchaWidth(cfg config.CaptchaConfig) int {
	if cfg.Width <= 0 {
		return 200
	}
	return cfg.Width
}

func resolveCaptchaLength(cfg config.CaptchaConfig) int {
	if cfg.Length < 4 || cfg.Length > 8 {
		return 4
	}
	return cfg.Length
}
