//go:build integration

package postgres

import (
	"context"
	"fmt"

	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startContainer runs a throwaway Postgres and returns its URL.
func startContainer(ctx context.Context) (string, func(), error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("aiddesk"),
		tcpostgres.WithUsername("aiddesk"),
		tcpostgres.WithPassword("aiddesk"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", func() {}, fmt.Errorf("start postgres container: %w", err)
	}
	terminate := func() { _ = container.Terminate(context.Background()) }

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return "", func() {}, fmt.Errorf("postgres connection string: %w", err)
	}
	return url, terminate, nil
}
