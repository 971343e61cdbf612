package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/journal-timeline/internal/config"
	"github.com/vladimiradmaev/journal-timeline/internal/journal"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	rules, err := journal.LoadRuleTable(cfg.RulesPath)
	if err != nil {
		fmt.Printf("❌ Rule table is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Configuration details:\n")
	fmt.Printf("  - Journal: %s\n", cfg.JournalPath)
	fmt.Printf("  - Mode: %s\n", mode(cfg))
	fmt.Printf("  - Output Dir: %s\n", cfg.OutputDir)
	fmt.Printf("  - Rules: %s\n", orDefault(cfg.RulesPath, "<built-in>"))
	fmt.Printf("  - Substances: %d, coffee estimate %.0f mg\n", len(rules.Substances), rules.CoffeeEstimateMg)
	fmt.Printf("  - DB Driver: %s\n", orDefault(cfg.DB.Driver, "<disabled>"))
	switch cfg.DB.Driver {
	case "postgres":
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	case "sqlite":
		fmt.Printf("  - DB Path: %s\n", cfg.DB.Path)
	}
	if cfg.RedisEnabled() {
		fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	} else {
		fmt.Printf("  - Redis: <disabled, in-memory checkpoints>\n")
	}
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Telegram Chat: %s\n", orDefault(cfg.TelegramChatID, "<not set>"))
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func mode(cfg *config.Config) string {
	if !cfg.SingleDay() {
		return "every sheet"
	}
	return fmt.Sprintf("single day %s from sheet %s", cfg.JournalDate, orDefault(cfg.JournalSheet, "<first>"))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
