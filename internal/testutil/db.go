// Package testutil provides shared fixtures and test doubles.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foodlog/foodlog/internal/db"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var dbSeq atomic.Int64

// NewDB opens a migrated in-memory SQLite database that lives for the test.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	conn, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.RunMigrations(context.Background(), conn.DB, "sqlite"))
	return conn
}

// CreateUser inserts an identity and an empty profile for it.
func CreateUser(t *testing.T, conn *sqlx.DB, email string) *model.User {
	t.Helper()

	user := &model.User{ID: uuid.NewString(), Email: email, CreatedAt: time.Now()}
	_, err := conn.Exec(`INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`, user.ID, user.Email, user.CreatedAt)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO profiles (user_id, email, created_at, updated_at) VALUES ($1, $2, $3, $3)`, user.ID, user.Email, user.CreatedAt)
	require.NoError(t, err)
	return user
}
