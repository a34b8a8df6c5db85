package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is loaded once at startup from the environment (a .env file in
// development, real env vars in deployment).
type Config struct {
	Port string

	// StoreDriver selects the rowstore backend: sheets, postgres or
	// memory (local development only).
	StoreDriver string

	// Google Sheets driver.
	SpreadsheetID   string
	CredentialsFile string

	// Postgres driver.
	DBHost     string
	DBPort     string
	DBUser     string
	DBName     string
	DBPassword string

	JWTSecret string

	// Classes maps class id to its shared login secret. Format of the
	// CLASSES variable: "3-A:sakura,3-B:momiji".
	Classes map[string]string

	// Actors are the names selectable as expense purchasers.
	Actors []string

	DefaultBudget int

	MenuTable   string
	BudgetTable string

	// Cache TTLs: short for tables that change during live selling,
	// long for the rarely-edited budget table.
	MenuTTL   time.Duration
	LedgerTTL time.Duration
	BudgetTTL time.Duration
}

// ConnectionString builds the Postgres DSN the gorm driver expects.
func (c Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBPassword)
}

// LoadConfig reads the environment with sensible defaults for a
// single-event deployment.
func LoadConfig() Config {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		StoreDriver:     getenv("STORE_DRIVER", "sheets"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: getenv("GOOGLE_CREDENTIALS_FILE", "service-account.json"),
		DBHost:          getenv("DB_HOST", "localhost"),
		DBPort:          getenv("DB_PORT", "5432"),
		DBUser:          getenv("DB_USER", "postgres"),
		DBName:          getenv("DB_NAME", "mogiten"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		Classes:         parseClasses(os.Getenv("CLASSES")),
		Actors:          splitList(getenv("ACTORS", "register")),
		DefaultBudget:   getint("DEFAULT_BUDGET", 30000),
		MenuTable:       getenv("MENU_TABLE", "menu"),
		BudgetTable:     getenv("BUDGET_TABLE", "budget"),
		MenuTTL:         getduration("MENU_TTL", 30*time.Second),
		LedgerTTL:       getduration("LEDGER_TTL", 30*time.Second),
		BudgetTTL:       getduration("BUDGET_TTL", 600*time.Second),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseClasses(raw string) map[string]string {
	classes := make(map[string]string)
	for _, pair := range splitList(raw) {
		id, secret, ok := strings.Cut(pair, ":")
		if ok {
			classes[id] = secret
		}
	}
	return classes
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
