package httpserver

import (
	"context"
	"fmt"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PollSource — откуда брать отметки времени цикла опроса.
type PollSource interface {
	StartedAt() time.Time
	LastSuccess() time.Time
}

// PollHealth считает сервис больным, если успешного опроса не было дольше
// maxAge или не пингуется БД. Пока успехов не было, отсчёт идёт от старта цикла.
func PollHealth(src PollSource, maxAge time.Duration, now func() time.Time, db Pinger) HealthFunc {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) error {
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				return fmt.Errorf("db: %w", err)
			}
		}
		last := src.LastSuccess()
		if last.IsZero() {
			started := src.StartedAt()
			if started.IsZero() {
				return nil
			}
			if age := now().Sub(started); age > maxAge {
				return fmt.Errorf("no successful poll since start %s ago", age.Truncate(time.Second))
			}
			return nil
		}
		if age := now().Sub(last); age > maxAge {
			return fmt.Errorf("last successful poll %s ago", age.Truncate(time.Second))
		}
		return nil
	}
}
