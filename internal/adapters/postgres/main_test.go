package postgres

import (
	"AidDesk/internal/adapters/security"
	"AidDesk/internal/core/ports"
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var (
	testDB     *DB
	testSecSvc ports.SecurityPort
)

// TestMain connects to the database named by DATABASE_URL (from the
// environment or the project's .env). With the integration tag and no URL it
// starts a Postgres container; otherwise the package is skipped.
func TestMain(m *testing.M) {
	_ = godotenv.Load("../../../.env")
	ctx := context.Background()

	url := os.Getenv("DATABASE_URL")
	terminate := func() {}
	if url == "" {
		var err error
		url, terminate, err = startContainer(ctx)
		if err != nil {
			log.Fatalf("TestMain: %v", err)
		}
	}
	if url == "" {
		fmt.Println("postgres: DATABASE_URL not set, skipping repository tests")
		os.Exit(0)
	}

	nopLogger := zerolog.Nop()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("TestMain: Failed to generate key: %v", err)
	}
	var err error
	testSecSvc, err = security.NewAESService(key, &nopLogger)
	if err != nil {
		log.Fatalf("TestMain: Failed to create security service: %v", err)
	}

	testDB, err = NewDB(ctx, url, &nopLogger)
	if err != nil {
		log.Fatalf("TestMain: Failed to connect to test database: %v", err)
	}
	if err := testDB.Migrate(ctx); err != nil {
		log.Fatalf("TestMain: Failed to migrate: %v", err)
	}

	code := m.Run()

	testDB.Close()
	terminate()
	os.Exit(code)
}
