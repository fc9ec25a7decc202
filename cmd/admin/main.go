package main

import (
	"fmt"
	"log"
	"os"

	"childguard/backend/internal/models"
	"childguard/backend/internal/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	s := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-unit":
		if len(os.Args) != 5 {
			fmt.Println("Usage: admin create-unit <name> <location> <region>")
			os.Exit(1)
		}
		u := &models.Unit{
			Name:     os.Args[2],
			Location: os.Args[3],
			Region:   os.Args[4],
			IsActive: true,
		}
		if err := s.CreateUnit(u); err != nil {
			log.Fatalf("Error creating unit: %v", err)
		}
		fmt.Printf("Unit %s created with id %s.\n", u.Name, u.ID)
	case "create-actor":
		if len(os.Args) < 7 {
			fmt.Println("Usage: admin create-actor <name> <email> <password> <role> <unit_id> [role_detail]")
			os.Exit(1)
		}
		role := models.Role(os.Args[5])
		if !role.Valid() {
			fmt.Println("Invalid role. Use LEVEL1, LEVEL2, LEVEL3 or LEVEL4.")
			os.Exit(1)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[4]), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error hashing password: %v", err)
		}
		a := &models.Actor{
			Name:         os.Args[2],
			Email:        os.Args[3],
			PasswordHash: string(hash),
			Role:         role,
			UnitID:       os.Args[6],
			IsActive:     true,
		}
		if len(os.Args) > 7 {
			a.RoleDetail = models.RoleDetail(os.Args[7])
		}
		if err := s.SaveActor(a); err != nil {
			log.Fatalf("Error creating actor: %v", err)
		}
		fmt.Printf("Actor %s created with id %s.\n", a.Email, a.ID)
	case "set-role":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin set-role <email> <role> [role_detail]")
			os.Exit(1)
		}
		role := models.Role(os.Args[3])
		if !role.Valid() {
			fmt.Println("Invalid role. Use LEVEL1, LEVEL2, LEVEL3 or LEVEL4.")
			os.Exit(1)
		}
		a, err := s.GetActorByEmail(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading actor: %v", err)
		}
		if a == nil {
			log.Fatalf("No actor with email %s", os.Args[2])
		}
		a.Role = role
		if len(os.Args) > 4 {
			a.RoleDetail = models.RoleDetail(os.Args[4])
		} else {
			a.RoleDetail = ""
		}
		if err := s.SaveActor(a); err != nil {
			log.Fatalf("Error updating actor: %v", err)
		}
		fmt.Printf("Actor %s is now %s.\n", a.Email, a.Role)
	case "deactivate-actor":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin deactivate-actor <email>")
			os.Exit(1)
		}
		a, err := s.GetActorByEmail(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading actor: %v", err)
		}
		if a == nil {
			log.Fatalf("No actor with email %s", os.Args[2])
		}
		a.IsActive = false
		if err := s.SaveActor(a); err != nil {
			log.Fatalf("Error updating actor: %v", err)
		}
		fmt.Printf("Actor %s deactivated.\n", a.Email)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
