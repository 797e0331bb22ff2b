package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/diecast-shop/internal/logger"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/provider"
	"github.com/diecast-shop/internal/queue"
	"github.com/diecast-shop/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	user, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	receiverEmail := ""
	if user != nil {
		receiverEmail = strings.TrimSpace(user.Email)
	}
	if receiverEmail == "" {
		logger.Debugw("worker_order_status_email_skip_empty_receiver", "order_id", order.ID, "order_code", order.OrderCode)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_status_email_skip_email_service_nil", "order_id", order.ID, "order_code", order.OrderCode)
		return nil
	}
	input := buildStatusEmailInput(order, payload.Status)
	if err := c.EmailService.SendOrderStatusEmail(receiverEmail, input); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Debugw("worker_order_status_email_skip_disabled", "order_id", order.ID, "order_code", order.OrderCode)
			return nil
		}
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", order.ID,
			"order_code", order.OrderCode,
			"receiver_email", receiverEmail,
			"status", input.Status,
			"error", err,
		)
		return err
	}
	return nil
}

// buildStatusEmailInput 组装状态邮件内容，任务载荷里的状态优先于订单当前状态。
func buildStatusEmailInput(order *models.Order, status string) service.OrderStatusEmailInput {
	if order == nil {
		return service.OrderStatusEmailInput{}
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = order.Status
	}
	return service.OrderStatusEmailInput{
		OrderCode: order.OrderCode,
		Status:    status,
		Amount:    order.TotalPrice,
	}
}
