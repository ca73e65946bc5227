package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"travel-pricing-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "travel_pricing_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.Hotel{},
		&models.Room{},
		&models.TransportService{},
		&models.TransportRoute{},
		&models.PricingRule{},
		&models.RoomRate{},
		&models.TransportRate{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

// SeedDatabase gives a fresh install a demo hotel, rooms, a transport
// service with routes, and a couple of rules to play with. Idempotent.
func SeedDatabase() {
	var hotelCount int64
	DB.Model(&models.Hotel{}).Count(&hotelCount)
	if hotelCount == 0 {
		hotel := models.Hotel{Name: "Riverside Hotel", City: "Bangkok", Currency: "THB"}
		if err := DB.Create(&hotel).Error; err != nil {
			log.Printf("warning: failed to seed hotel: %v", err)
		} else {
			rooms := []models.Room{
				{HotelID: hotel.ID, RoomNumber: "101", Category: "standard", MaxOccupancy: 2, BasePrice: 1200, IsActive: true},
				{HotelID: hotel.ID, RoomNumber: "102", Category: "standard", MaxOccupancy: 2, BasePrice: 1200, IsActive: true},
				{HotelID: hotel.ID, RoomNumber: "201", Category: "superior", MaxOccupancy: 3, BasePrice: 1800, IsActive: true},
				{HotelID: hotel.ID, RoomNumber: "301", Category: "deluxe", MaxOccupancy: 4, BasePrice: 2600, IsActive: true},
			}
			if err := DB.Create(&rooms).Error; err != nil {
				log.Printf("warning: failed to seed rooms: %v", err)
			} else {
				log.Println("Demo hotel and rooms seeded")
			}
		}
	}

	var svcCount int64
	DB.Model(&models.TransportService{}).Count(&svcCount)
	if svcCount == 0 {
		svc := models.TransportService{Name: "Northern Express", VehicleType: "minivan", Currency: "THB"}
		if err := DB.Create(&svc).Error; err != nil {
			log.Printf("warning: failed to seed transport service: %v", err)
		} else {
			routes := []models.TransportRoute{
				{ServiceID: svc.ID, Origin: "BKK", Destination: "CNX", AdultPrice: 850, ChildPrice: 500, IsActive: true},
				{ServiceID: svc.ID, Origin: "BKK", Destination: "HHQ", AdultPrice: 420, ChildPrice: 260, IsActive: true},
			}
			if err := DB.Create(&routes).Error; err != nil {
				log.Printf("warning: failed to seed routes: %v", err)
			} else {
				log.Println("Demo transport service and routes seeded")
			}
		}
	}

	var ruleCount int64
	DB.Model(&models.PricingRule{}).Count(&ruleCount)
	if ruleCount == 0 {
		year := time.Now().Year()
		rules := []models.PricingRule{
			{
				Name:            "High season surcharge",
				RuleType:        models.RuleSeasonal,
				StartDate:       time.Date(year, 11, 1, 0, 0, 0, 0, time.UTC),
				EndDate:         time.Date(year+1, 2, 28, 0, 0, 0, 0, time.UTC),
				AdjustmentType:  models.AdjustPercentage,
				AdjustmentValue: 20,
				Priority:        8,
				IsActive:        true,
			},
			{
				Name:            "Long-stay discount",
				RuleType:        models.RuleLengthOfStay,
				StartDate:       time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:         time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
				AdjustmentType:  models.AdjustPercentage,
				AdjustmentValue: -10,
				MinNights:       intPtr(7),
				Priority:        4,
				IsActive:        true,
			},
		}
		if err := DB.Create(&rules).Error; err != nil {
			log.Printf("warning: failed to seed pricing rules: %v", err)
		} else {
			log.Println("Demo pricing rules seeded")
		}
	}
}

func intPtr(v int) *int { return &v }
