package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/playmatatu/lastone/internal/admin"
)

// seed-admin prints the ADMIN_TOKEN_HASH value for a plain admin token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if len(os.Args) > 1 {
		adminToken = os.Args[1]
	}
	if adminToken == "" {
		log.Fatal("usage: seed-admin <token> (or set ADMIN_TOKEN)")
	}

	hash, err := admin.HashAdminToken(adminToken)
	if err != nil {
		log.Fatalf("Failed to hash admin token: %v", err)
	}

	log.Println("Admin token hashed. Add this line to the server environment:")
	fmt.Printf("ADMIN_TOKEN_HASH=%s\n", hash)
}
