package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	mysqlUser := getEnv("MYSQL_USER", "root")
	mysqlPassword := getEnv("MYSQL_PASSWORD", "my-secret-pw")
	mysqlHost := getEnv("MYSQL_HOST", "localhost:3306")
	mysqlDatabase := getEnv("MYSQL_DB", "promisepoint")

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		mysqlUser, mysqlPassword, mysqlHost, mysqlDatabase)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping MySQL: %v\nDSN: %s:%s@tcp(%s)/%s",
			err, mysqlUser, "***", mysqlHost, mysqlDatabase)
	}

	fmt.Println("Connected to MySQL successfully")

	// Seed the loan type catalogue. Amounts are in kobo. Ids are fixed so
	// re-running the seed updates rows instead of duplicating them.
	loanTypes := []struct {
		id             string
		name           string
		userType       string
		category       string
		interestRate   float64
		durationMonths int
		minAmount      int64
		maxAmount      int64
	}{
		{"0d4c7a1e-9f32-4b6d-8c15-2e7a90b3f401", "Input Credit - Seeds & Fertilizer", "farmer", "input_credit", 10, 6, 1000000, 50000000},
		{"1a8e5f2b-3c47-4d91-b0e6-74d2c8a91f02", "Farm Tools Credit", "farmer", "farm_tools", 10, 6, 500000, 20000000},
		{"2b9f6a3c-4d58-4ea2-91f7-85e3d9ba2f03", "Equipment Financing", "farmer", "equipment", 15, 12, 10000000, 500000000},
		{"3c0a7b4d-5e69-4fb3-a208-96f4eacb3f04", "Staff Personal Loan", "staff", "personal_loan", 5, 12, 5000000, 100000000},
		{"4d1b8c5e-6f7a-40c4-b319-a705fbdc4f05", "Staff Emergency Loan", "staff", "emergency_loan", 2, 6, 1000000, 30000000},
	}

	query := `
		INSERT INTO loan_types (id, name, user_type, category, interest_rate,
		                        duration_months, min_amount, max_amount, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    name = VALUES(name),
		    interest_rate = VALUES(interest_rate),
		    min_amount = VALUES(min_amount),
		    max_amount = VALUES(max_amount)
	`

	for _, lt := range loanTypes {
		_, err := db.Exec(query,
			lt.id,
			lt.name,
			lt.userType,
			lt.category,
			lt.interestRate,
			lt.durationMonths,
			lt.minAmount,
			lt.maxAmount,
			true,
		)

		if err != nil {
			log.Fatalf("Failed to seed loan type %s: %v", lt.name, err)
		}

		fmt.Printf("Seeded loan type: %s (%s, %.0f%%, %d months)\n",
			lt.name, lt.userType, lt.interestRate, lt.durationMonths)
	}

	fmt.Println("\nSeed completed successfully!")
	fmt.Println("List the catalogue at GET /api/v1/loan-types")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
