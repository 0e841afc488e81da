package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMigrations_Ordered(t *testing.T) {
	migs := GetMigrations()
	require.NotEmpty(t, migs)

	for i, m := range migs {
		assert.Equal(t, i+1, m.Version, m.Name)
		assert.NotEmpty(t, m.UpSQL, m.Name)
	}
	assert.True(t, strings.Contains(migs[1].UpSQL, "REFERENCES students(username)"))
}

func TestPending(t *testing.T) {
	all := GetMigrations()

	got := pending(all, map[int]time.Time{})
	assert.Len(t, got, len(all))

	got = pending(all, map[int]time.Time{1: time.Now()})
	require.Len(t, got, len(all)-1)
	assert.Equal(t, 2, got[0].Version)

	applied := map[int]time.Time{}
	for _, m := range all {
		applied[m.Version] = time.Now()
	}
	assert.Empty(t, pending(all, applied))
}

func TestErrorHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsCheckViolation(check))
	assert.False(t, IsCheckViolation(errors.New("plain")))

	assert.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(unique))
}

func TestConfig_PoolConfig(t *testing.T) {
	cfg := Config{URL: "postgres://u:p@localhost:5432/tracker?sslmode=disable", MaxConns: 3}
	pc, err := cfg.PoolConfig()
	require.NoError(t, err)
	assert.Equal(t, int32(3), pc.MaxConns)
	assert.Equal(t, "tracker", pc.ConnConfig.Database)

	_, err = Config{URL: "::not a url"}.PoolConfig()
	assert.Error(t, err)
}
