package service

import (
	"github.com/diecast-shop/internal/repository"
)

// StatsService 后台统计服务
type StatsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService 创建统计服务
func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// Summary 汇总看板数据：商品数、用户数、库存、利润与成本。
// 利润只统计已完成订单，按下单时的快照价与当前商品成本计算。
func (s *StatsService) Summary() (*repository.StatsSummary, error) {
	return s.statsRepo.Summary()
}
