package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	KindStatus  = "status"
	KindFailure = "failure"
)

// JournalRepo — журнал отправленных в чат сообщений. Только дописывается,
// курсор опроса отсюда не читается.
type JournalRepo struct{ DB *sql.DB }

func NewJournalRepo(db *sql.DB) *JournalRepo { return &JournalRepo{DB: db} }

func (r *JournalRepo) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists sent_notifications (
  id         bigserial primary key,
  chat_id    bigint      not null,
  kind       text        not null,
  text       text        not null,
  created_at timestamptz not null default now()
)`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

// Record сохраняет одно доставленное сообщение.
func (r *JournalRepo) Record(ctx context.Context, chatID int64, kind, text string) error {
	if kind != KindStatus && kind != KindFailure {
		return errors.New("journal: kind must be status or failure")
	}
	const q = `insert into sent_notifications (chat_id, kind, text) values ($1,$2,$3)`
	_, err := r.DB.ExecContext(ctx, q, chatID, kind, text)
	return err
}

// CountSince — сколько сообщений ушло в чат начиная с since.
func (r *JournalRepo) CountSince(ctx context.Context, chatID int64, since time.Time) (int64, error) {
	const q = `select count(*) from sent_notifications where chat_id=$1 and created_at >= $2`
	var n int64
	if err := r.DB.QueryRowContext(ctx, q, chatID, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// PurgeOlderThan удаляет старые записи, чтобы журнал не рос бесконечно.
func (r *JournalRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	const q = `delete from sent_notifications where created_at < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

func (r *JournalRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
