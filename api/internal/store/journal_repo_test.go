package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeDSNSummary(t *testing.T) {
	assert.Equal(t, "postgres://u@db:5432/bot sslmode=disable",
		SafeDSNSummary("postgres://u:secret@db:5432/bot?sslmode=disable&application_name=x"))
	assert.Equal(t, "postgres://db/bot", SafeDSNSummary("postgres://db/bot"))
}

func TestSafeDSNSummary_NeverLeaksPassword(t *testing.T) {
	for _, dsn := range []string{
		"postgres://u:secret@db:5432/bot",
		"host=db user=u password=secret dbname=bot",
		"postgres://u:secret@[::1",
	} {
		got := SafeDSNSummary(dsn)
		assert.NotContains(t, got, "secret", dsn)
	}
	assert.Equal(t, "<unparsable dsn>", SafeDSNSummary("host=db user=u password=secret"))
}

func TestJournalRepo_RejectsUnknownKind(t *testing.T) {
	r := NewJournalRepo(nil)
	err := r.Record(context.Background(), 1, "other", "x")
	assert.Error(t, err)
}

func TestJournalRepo_PurgeRequiresPositiveAge(t *testing.T) {
	r := NewJournalRepo(nil)
	_, err := r.PurgeOlderThan(context.Background(), 0)
	assert.Error(t, err)
}

// Интеграционный прогон: нужен живой Postgres в TEST_DATABASE_URL.
func TestJournalRepo_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	ctx := context.Background()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	r := NewJournalRepo(db)
	require.NoError(t, r.EnsureSchema(ctx))
	require.NoError(t, r.Ping(ctx))

	chatID := time.Now().UnixNano()
	since := time.Now().Add(-time.Minute)
	require.NoError(t, r.Record(ctx, chatID, KindStatus, `Изменился статус проверки работы "proj1".`))
	require.NoError(t, r.Record(ctx, chatID, KindFailure, "Сбой в работе программы: boom"))

	n, err := r.CountSince(ctx, chatID, since)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = db.ExecContext(ctx, `delete from sent_notifications where chat_id=$1`, chatID)
	require.NoError(t, err)
}
