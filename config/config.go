package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	RedisAddr string `json:"redis_addr"` // vazio desabilita o redis

	Security SecurityConfig `json:"security"`
}

type SecurityConfig struct {
	JwtSecret          string `json:"jwt_secret"`
	TokenValidHours    int    `json:"token_valid_hours"`
	TwoFactorCodeLen   int    `json:"two_factor_code_len"`
	TwoFactorValidMins int    `json:"two_factor_valid_minutes"`
	NotifyThrottleMins int    `json:"notify_throttle_minutes"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.TokenValidHours <= 0 {
		c.Security.TokenValidHours = 24
	}
	if c.Security.TwoFactorCodeLen <= 0 {
		c.Security.TwoFactorCodeLen = 6
	}
	if c.Security.TwoFactorValidMins <= 0 {
		c.Security.TwoFactorValidMins = 10
	}
	if c.Security.NotifyThrottleMins <= 0 {
		c.Security.NotifyThrottleMins = 15
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}

	return c
}
