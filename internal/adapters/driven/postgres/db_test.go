package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestNullString(t *testing.T) {
	assert.False(t, NullString("").Valid)
	ns := NullString("index_failed")
	assert.True(t, ns.Valid)
	assert.Equal(t, "index_failed", ns.String)
}

func TestTimePtr(t *testing.T) {
	assert.Nil(t, TimePtr(sql.NullTime{}))
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got := TimePtr(sql.NullTime{Time: ts, Valid: true})
	if assert.NotNil(t, got) {
		assert.Equal(t, ts, *got)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{URL: "postgres://x", MaxOpenConns: 3}.withDefaults()
	assert.Equal(t, 3, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, time.Minute, cfg.ConnMaxIdleTime)
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	assert.ErrorContains(t, err, "database url")
}

func TestListPageQuery(t *testing.T) {
	first := listPageQuery(false)
	assert.NotContains(t, first, "$3")
	assert.Contains(t, first, "ORDER BY updated_at DESC, id DESC")

	next := listPageQuery(true)
	assert.Contains(t, next, "(updated_at, id) < (SELECT updated_at, id FROM messages WHERE id = $3 AND file_id = $1)")
	assert.True(t, strings.Contains(next, "LIMIT $2"))
}

func TestHashLockName(t *testing.T) {
	assert.Equal(t, hashLockName("ingest:a"), hashLockName("ingest:a"))
	assert.NotEqual(t, hashLockName("ingest:a"), hashLockName("ingest:b"))
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"users", "documents", "messages", "tasks"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
