package main

import (
	"log"
	"os"
	"time"

	"dunar/config"
	"dunar/controllers"
	dbpkg "dunar/db"
	"dunar/kv"
	"dunar/notify"
	"dunar/router"
	"dunar/workers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// =====================
// ENV esperadas
// =====================
//
// - CONFIG_PATH                (default: config.json)
// - JWT_SECRET                 (assinatura dos tokens de sessão)
// - MERCADOPAGO_ACCESS_TOKEN   (token da conta Mercado Pago)
// - APP_BASE_URL               (base pública para back_urls/notification_url)
// - SMTP_HOST/PORT/USER/PASS/FROM  (envio de email; vazio = modo dev/log)
// - AUTOMIGRATE=1              (automigrate em dev)
//
// =====================

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("sem .env, usando só o ambiente do processo")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}
	cfg := config.Get(configPath)

	dbpkg.SetConfigurations(cfg)
	controllers.SetConfigurations(cfg)
	notify.SetThrottleWindow(time.Duration(cfg.Security.NotifyThrottleMins) * time.Minute)

	database, err := dbpkg.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	kv.Init(cfg.RedisAddr)

	workers.StartTicketExpirer(database)

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	router.Initialize(r)

	log.Printf("Dunar listening on :%s", cfg.ApiPort)
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		log.Fatal(err)
	}
}
