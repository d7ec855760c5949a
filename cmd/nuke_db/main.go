// Command nuke_db drops and recreates the public schema. Development only.
package main

import (
	"fmt"
	"log"
	"strings"

	"hayai/internal/config"
	"hayai/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if strings.HasPrefix(cfg.Env, "prod") {
		log.Fatal("refusing to nuke a production database")
	}

	// Connect without applying schema; the point is to start from nothing.
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Nuking database...")
	if err := db.Exec("DROP SCHEMA public CASCADE; CREATE SCHEMA public;").Error; err != nil {
		log.Fatalf("failed to nuke schema: %v", err)
	}
	if err := db.Exec("GRANT ALL ON SCHEMA public TO public;").Error; err != nil {
		log.Fatalf("failed to grant schema permissions: %v", err)
	}
	fmt.Println("Database nuked. Run the server or cmd/migrate to recreate the schema.")
}
