package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/config"
	"github.com/SolomonOP/smart-waiter-system-sub000/events"
	"github.com/SolomonOP/smart-waiter-system-sub000/kds"
	"github.com/SolomonOP/smart-waiter-system-sub000/lifecycle"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/router"
	"github.com/SolomonOP/smart-waiter-system-sub000/sequence"
	"github.com/SolomonOP/smart-waiter-system-sub000/services"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Every lifecycle event fans out to the websocket displays and the
	// notification inbox, plus the broker when one is configured.
	hub := kds.NewHub()
	emitters := events.Fanout{hub, events.NewNotificationStore(db)}
	if cfg.AMQPURL != "" {
		amqpEmitter, err := events.NewAMQPEmitter(cfg.AMQPURL)
		if err != nil {
			utils.ErrorLogger.Errorf("AMQP disabled, connect failed: %v", err)
		} else {
			defer amqpEmitter.Close()
			emitters = append(emitters, amqpEmitter)
			utils.InfoLogger.Println("Publishing order events to AMQP")
		}
	}

	// Order numbers come from Redis when available, otherwise from the
	// day counter table.
	var numbers *sequence.Generator
	if cfg.RedisAddr != "" {
		numbers = sequence.NewGenerator(sequence.NewRedisCounter(cfg.RedisAddr))
		utils.InfoLogger.Printf("Order numbers issued via Redis at %s", cfg.RedisAddr)
	} else {
		numbers = sequence.NewGenerator(sequence.NewDBCounter(db))
	}

	coordinator := lifecycle.NewCoordinator(db, emitters, numbers)

	housekeeper := services.NewHousekeeper(db, coordinator, cfg.StalePendingAfter)
	housekeeper.Start()
	defer housekeeper.Stop()

	r := router.SetupRouter(db, coordinator, hub)

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Customer{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.ServiceRequest{},
		&models.OrderStatusLog{},
		&models.Notification{},
		&models.DayCounter{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed")
}
