package main

import (
	"fmt"

	"github.com/diecast-shop/internal/config"
	"github.com/diecast-shop/internal/logger"
	"github.com/diecast-shop/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 商品目录（价格单位为印尼盾）
	costOf := func(v int64) *models.Money {
		m := models.NewMoneyFromInt(v)
		return &m
	}
	products := []models.Product{
		{
			ProductCode: "DC-TH-GTR35",
			Name:        "Tomica Hot Rod Nissan GT-R R35 1:64",
			Description: "Die-cast skala 1:64 dengan detail interior dan velg karet.",
			Price:       models.NewMoneyFromInt(185000),
			CostPrice:   costOf(120000),
			Stock:       24,
			Image:       "products/dc-th-gtr35.jpg",
			IsActive:    true,
			SortOrder:   100,
		},
		{
			ProductCode: "DC-MJ-SUPRA",
			Name:        "Majorette Toyota GR Supra Racing 1:64",
			Description: "Edisi racing livery, pintu bisa dibuka.",
			Price:       models.NewMoneyFromInt(95000),
			CostPrice:   costOf(60000),
			Stock:       40,
			Image:       "products/dc-mj-supra.jpg",
			IsActive:    true,
			SortOrder:   90,
		},
		{
			ProductCode: "DC-KY-LANEVO",
			Name:        "Kyosho Mitsubishi Lancer Evolution IX 1:43",
			Description: "Skala 1:43, limited run dengan nomor seri di sasis.",
			Price:       models.NewMoneyFromInt(750000),
			CostPrice:   costOf(520000),
			Stock:       6,
			Limited:     true,
			Image:       "products/dc-ky-lanevo.jpg",
			IsActive:    true,
			SortOrder:   80,
		},
		{
			ProductCode: "DC-AA-CIVIC",
			Name:        "AUTOart Honda Civic Type R FL5 1:18",
			Description: "Composite die-cast 1:18, kap mesin dan pintu fungsional.",
			Price:       models.NewMoneyFromInt(3250000),
			CostPrice:   costOf(2400000),
			Stock:       3,
			Limited:     true,
			Image:       "products/dc-aa-civic.jpg",
			IsActive:    true,
			SortOrder:   70,
		},
		{
			ProductCode: "DC-HW-RX7",
			Name:        "Hot Wheels Premium Mazda RX-7 FD3S",
			Description: "Seri Car Culture, real riders wheels.",
			Price:       models.NewMoneyFromInt(125000),
			CostPrice:   costOf(85000),
			Stock:       0,
			Image:       "products/dc-hw-rx7.jpg",
			IsActive:    true,
			SortOrder:   60,
		},
	}

	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("product_code = ?", prod.ProductCode).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.ProductCode, err)
			} else {
				stdLog.Printf("Created product: %s", prod.ProductCode)
			}
		} else {
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.CostPrice = prod.CostPrice
			existing.Stock = prod.Stock
			existing.Limited = prod.Limited
			existing.Image = prod.Image
			existing.IsActive = prod.IsActive
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.ProductCode, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.ProductCode)
			}
		}
	}

	// 配送方式
	couriers := []models.Courier{
		{Code: "jne", Name: "JNE Reguler", Cost: models.NewMoneyFromDecimal(decimal.NewFromInt(18000)), IsActive: true},
		{Code: "sicepat", Name: "SiCepat BEST", Cost: models.NewMoneyFromDecimal(decimal.NewFromInt(20000)), IsActive: true},
		{Code: "anteraja", Name: "AnterAja Same Day", Cost: models.NewMoneyFromDecimal(decimal.NewFromInt(35000)), IsActive: true},
		{Code: "pickup", Name: "Ambil di Toko", Cost: models.NewMoneyFromDecimal(decimal.Zero), IsActive: true},
	}

	for _, courier := range couriers {
		var existing models.Courier
		if err := models.DB.Where("code = ?", courier.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&courier).Error; err != nil {
				stdLog.Printf("Failed to create courier %s: %v", courier.Code, err)
			} else {
				stdLog.Printf("Created courier: %s", courier.Code)
			}
		} else {
			existing.Name = courier.Name
			existing.Cost = courier.Cost
			existing.IsActive = courier.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update courier %s: %v", courier.Code, err)
			} else {
				stdLog.Printf("Updated courier: %s", courier.Code)
			}
		}
	}

	fmt.Println("\nSeed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- Default admin account")
	fmt.Println("- 5 Products (diecast catalog)")
	fmt.Println("- 4 Couriers")
}
