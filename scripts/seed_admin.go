package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"hiring-engine/internal/config"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
)

// Seeds the initial admin account. Idempotent: an existing account with
// the same email is left untouched.
func main() {
	log.Println("🚀 Seeding admin account...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("❌ ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	userRepo := repositories.NewUserRepository(db)

	if _, err := userRepo.FindByEmail(email); err == nil {
		log.Printf("✅ Admin account %s already exists, nothing to do\n", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatalf("❌ Failed to create admin account: %v", err)
	}

	log.Printf("✅ Admin account %s created\n", email)
}
