// seed-admin creates the first superuser account from FIRST_SUPERUSER and
// FIRST_SUPERUSER_PASSWORD. Run it once against a fresh database; it exits
// without changes when the account already exists.
//
// Usage: go run ./cmd/seed-admin
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mryoshq/Accounting-AI/internal/core"
	"github.com/mryoshq/Accounting-AI/internal/db"
)

func main() {
	_ = godotenv.Load()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("DATABASE_URL not set")
	}
	email := os.Getenv("FIRST_SUPERUSER")
	password := os.Getenv("FIRST_SUPERUSER_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("FIRST_SUPERUSER and FIRST_SUPERUSER_PASSWORD must be set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, url)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	users := core.NewUserService(pool)

	const pageSize = 100
	for skip := 0; ; skip += pageSize {
		page, _, err := users.GetUsers(ctx, skip, pageSize)
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		for _, u := range page {
			if u.Email == email {
				log.Printf("Superuser %s already exists, nothing to do.", email)
				return
			}
		}
		if len(page) < pageSize {
			break
		}
	}

	user, err := users.CreateUser(ctx, core.UserInput{
		Email:       email,
		Password:    password,
		FullName:    "Administrator",
		IsActive:    true,
		IsSuperuser: true,
	})
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}

	log.Printf("Created superuser %s (id=%d).", user.Email, user.ID)
}
