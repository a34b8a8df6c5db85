package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/totizi/Mogiten-system/cache"
	"github.com/totizi/Mogiten-system/config"
	"github.com/totizi/Mogiten-system/controllers"
	"github.com/totizi/Mogiten-system/models"
	"github.com/totizi/Mogiten-system/pos"
	"github.com/totizi/Mogiten-system/retry"
	"github.com/totizi/Mogiten-system/routes"
	"github.com/totizi/Mogiten-system/rowstore"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	cfg := config.LoadConfig()
	if len(cfg.Classes) == 0 {
		log.Fatal("CLASSES is not set; no class can log in")
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to open row store: ", err)
	}
	if closeStore != nil {
		defer closeStore()
	}

	tableCache := cache.New(cfg.MenuTTL)
	tableCache.TTLs[cfg.MenuTable] = cfg.MenuTTL
	tableCache.TTLs[cfg.BudgetTable] = cfg.BudgetTTL
	for class := range cfg.Classes {
		tableCache.TTLs[class] = cfg.LedgerTTL
	}

	engine := pos.NewEngine(store, tableCache, retry.New(500*time.Millisecond), pos.Options{
		MenuTable:     cfg.MenuTable,
		BudgetTable:   cfg.BudgetTable,
		DefaultBudget: cfg.DefaultBudget,
	})

	handler := &controllers.Handler{
		Engine:   engine,
		Sessions: pos.NewRegistry(),
		Cfg:      cfg,
	}

	// Initialize Gin router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(router, handler)

	log.Printf("Mogiten POS listening on :%s (store=%s)", cfg.Port, cfg.StoreDriver)
	router.Run(":" + cfg.Port)
}

// openStore wires the configured rowstore driver. Tables are
// provisioned ahead of the event: one tab per class ledger plus the
// shared menu and budget tables.
func openStore(cfg config.Config) (rowstore.Store, func() error, error) {
	switch cfg.StoreDriver {
	case "postgres":
		tables := []string{cfg.MenuTable, cfg.BudgetTable}
		for class := range cfg.Classes {
			tables = append(tables, class)
		}
		g, err := rowstore.OpenGorm(cfg.ConnectionString(), tables)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case "memory":
		m := rowstore.NewMemory()
		m.CreateTable(cfg.MenuTable, models.MenuHeader)
		m.CreateTable(cfg.BudgetTable, models.BudgetHeader)
		for class := range cfg.Classes {
			m.CreateTable(class, models.LedgerHeader)
		}
		return m, nil, nil
	default:
		s, err := rowstore.NewSheets(context.Background(), cfg.SpreadsheetID, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	}
}
