package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderkart/backend/internal/domain"
	"github.com/pkordes/wanderkart/backend/internal/repo"
)

// createUser inserts a throwaway account inside tx.
func createUser(t *testing.T, tx pgx.Tx) domain.User {
	t.Helper()
	u, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Email:        uuid.NewString() + "@example.com",
		Name:         "Test Traveller",
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err, "create user")
	return u
}
