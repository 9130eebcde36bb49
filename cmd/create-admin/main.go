// Command create-admin creates the first ADMIN user, so the register
// endpoint (ADMIN only) becomes reachable.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tour-backoffice/database"
	authapi "tour-backoffice/internal/api/auth"
	"tour-backoffice/internal/domain/access"
)

func main() {
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
	dsn := os.Getenv("DB_URL")
	password := os.Getenv("ADMIN_PASSWORD")
	if *email == "" || dsn == "" || password == "" {
		log.Fatal("usage: DB_URL=... ADMIN_PASSWORD=... create-admin -email admin@example.com")
	}

	db := database.MustInit(dsn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := authapi.NewService(db, nil, 0)
	u, err := svc.Register(ctx, authapi.RegisterRequest{
		Email:    *email,
		Password: password,
		Name:     *name,
		Role:     string(access.RoleAdmin),
	})
	if err != nil {
		log.Fatal("❌ Failed to create admin:", err)
	}
	log.Printf("✅ Admin %s created with id %s", u.Email, u.ID)
}
