package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"warehouse-service/internal/auth"
	"warehouse-service/internal/config"
	"warehouse-service/internal/domain/user"
	"warehouse-service/internal/repository/postgres"
	"warehouse-service/pkg/password"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Println("=== Setting Up Database ===")
	fmt.Println()

	db, err := postgres.New(context.Background(), &cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	schema, err := os.ReadFile("database/schema.sql")
	if err != nil {
		log.Fatalf("❌ Failed to read schema file: %v", err)
	}

	ctx := context.Background()

	fmt.Println("Executing schema...")
	if _, err := db.Pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("❌ Failed to execute schema: %v", err)
	}

	fmt.Println("✅ Schema executed successfully")
	fmt.Println()

	fmt.Println("=== Verifying Tables ===")
	tables := []string{"users", "reports", "report_fields", "audit_events"}

	for _, table := range tables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`
		if err := db.Pool.QueryRow(ctx, query, table).Scan(&exists); err != nil {
			fmt.Printf("❌ Error checking table '%s': %v\n", table, err)
			continue
		}

		if exists {
			fmt.Printf("✅ Table '%s' created\n", table)
		} else {
			fmt.Printf("❌ Table '%s' NOT created\n", table)
		}
	}

	seedAdmin(ctx, db)

	fmt.Println()
	fmt.Println("=== Database Setup Complete ===")
	fmt.Println()
	fmt.Println("Next: Run 'go run main.go' to start the server")
}

// seedAdmin creates the first admin account from ADMIN_USERNAME and
// ADMIN_PASSWORD when both are set.
func seedAdmin(ctx context.Context, db *postgres.DB) {
	username := os.Getenv("ADMIN_USERNAME")
	plain := os.Getenv("ADMIN_PASSWORD")
	if username == "" || plain == "" {
		return
	}

	fmt.Println()
	fmt.Println("=== Seeding Admin ===")

	hash, err := password.Hash(plain)
	if err != nil {
		log.Fatalf("❌ Failed to hash admin password: %v", err)
	}

	created, err := postgres.NewUserRepository(db).EnsureUser(ctx, user.CreateUserInput{
		Username:     username,
		DisplayName:  username,
		Role:         string(auth.RoleAdmin),
		PasswordHash: hash,
	})
	if err != nil {
		log.Fatalf("❌ Failed to seed admin: %v", err)
	}

	if created {
		fmt.Printf("✅ Admin '%s' created\n", username)
	} else {
		fmt.Printf("Admin '%s' already exists, left unchanged\n", username)
	}
}
