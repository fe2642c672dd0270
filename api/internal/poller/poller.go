package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"homework-bot/api/internal/homework"
	"homework-bot/api/internal/logging"
	"homework-bot/api/internal/metrics"
	"homework-bot/api/internal/store"
)

type Fetcher interface {
	Fetch(ctx context.Context, fromDate int64) (map[string]any, error)
}

type Notifier interface {
	Send(text string) error
}

// Journal — необязательный журнал доставленных сообщений.
type Journal interface {
	Record(ctx context.Context, chatID int64, kind, text string) error
}

type Config struct {
	Fetcher  Fetcher
	Notifier Notifier
	Journal  Journal
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	ChatID   int64
	Interval time.Duration

	// для тестов; по умолчанию time.Now и time.After
	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

// Poller — единственный цикл сервиса: запрос, проверка, форматирование,
// отправка, сон. Курсор живёт только в памяти Run.
type Poller struct {
	fetcher  Fetcher
	notifier Notifier
	journal  Journal
	metrics  *metrics.Metrics
	log      *slog.Logger

	chatID   int64
	interval time.Duration
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time

	startedAt   atomic.Int64
	lastSuccess atomic.Int64
}

func New(cfg Config) *Poller {
	p := &Poller{
		fetcher:  cfg.Fetcher,
		notifier: cfg.Notifier,
		journal:  cfg.Journal,
		metrics:  cfg.Metrics,
		log:      cfg.Logger,
		chatID:   cfg.ChatID,
		interval: cfg.Interval,
		now:      cfg.Now,
		after:    cfg.After,
	}
	if p.log == nil {
		p.log = logging.Discard()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.after == nil {
		p.after = time.After
	}
	return p
}

// Run крутится, пока не отменят ctx. Отмена замечается на сне между циклами.
func (p *Poller) Run(ctx context.Context) error {
	start := p.now()
	p.startedAt.Store(start.Unix())
	cursor := start.Add(-p.interval).Unix()
	p.log.Info("polling started", "interval", p.interval, "from_date", cursor)

	for {
		cursor = p.tick(ctx, cursor)

		select {
		case <-ctx.Done():
			p.log.Info("polling stopped")
			return ctx.Err()
		case <-p.after(p.interval):
		}
	}
}

// LastSuccess — время последнего полностью успешного цикла (нулевое, если не было).
func (p *Poller) LastSuccess() time.Time {
	ts := p.lastSuccess.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// StartedAt — когда запущен Run (нулевое, если ещё не запущен).
func (p *Poller) StartedAt() time.Time {
	ts := p.startedAt.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

func (p *Poller) tick(ctx context.Context, cursor int64) int64 {
	log := p.log.With("cycle_id", uuid.NewString(), "from_date", cursor)

	next, err := p.safeCycle(ctx, cursor)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("cycle interrupted by shutdown", "error", err)
			return cursor
		}
		p.report(ctx, log, err)
		return cursor
	}

	now := p.now()
	p.lastSuccess.Store(now.Unix())
	p.metrics.PollOK(now)
	log.Debug("cycle done", "next_from_date", next)
	return next
}

func (p *Poller) safeCycle(ctx context.Context, cursor int64) (next int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = cursor, fmt.Errorf("panic in poll cycle: %v", r)
		}
	}()
	return p.Cycle(ctx, cursor)
}

// Cycle выполняет один проход и возвращает курсор для следующего запроса.
// Курсор сдвигается на current_date ответа, только если весь проход удался.
func (p *Poller) Cycle(ctx context.Context, cursor int64) (int64, error) {
	body, err := p.fetcher.Fetch(ctx, cursor)
	if err != nil {
		return cursor, err
	}
	records, err := homework.CheckResponse(body)
	if err != nil {
		return cursor, err
	}
	if len(records) == 0 {
		p.log.Debug("no homework status changes", "from_date", cursor)
	}

	for _, rec := range records {
		msg, err := homework.ParseStatus(rec)
		if err != nil {
			return cursor, err
		}
		if err := p.notifier.Send(msg); err != nil {
			return cursor, homework.Delivery(err)
		}
		p.metrics.Notified(store.KindStatus)
		p.record(ctx, store.KindStatus, msg)
	}

	if ts, ok := homework.CurrentDate(body); ok {
		return ts, nil
	}
	return cursor, nil
}

// FailureMessage — текст, который уходит в чат при сбое цикла.
func FailureMessage(err error) string {
	return fmt.Sprintf("Сбой в работе программы: %v", err)
}

func (p *Poller) report(ctx context.Context, log *slog.Logger, err error) {
	kind := homework.KindOf(err)
	switch kind {
	case homework.KindTransport:
		log.Warn("practicum unreachable", "kind", kind, "error", err)
	case homework.KindEndpointUnavailable:
		log.Error("practicum endpoint unavailable", "kind", kind, "error", err)
	case homework.KindMalformedResponse:
		log.Error("malformed practicum response", "kind", kind, "error", err)
	case homework.KindMissingTitle, homework.KindMissingStatus, homework.KindUnknownStatus:
		log.Error("invalid homework record", "kind", kind, "error", err)
	case homework.KindDelivery:
		log.Error("status message not delivered", "kind", kind, "error", err)
	default:
		log.Error("unexpected failure", "kind", kind, "error_type", fmt.Sprintf("%T", err), "error", err)
	}
	p.metrics.PollFailed(kind.String())

	msg := FailureMessage(err)
	if sendErr := p.sendFailure(msg); sendErr != nil {
		log.Error("failure notification not delivered", "error", sendErr)
		return
	}
	p.metrics.Notified(store.KindFailure)
	p.record(ctx, store.KindFailure, msg)
}

// sendFailure не выпускает наружу ни ошибку, ни панику канала доставки.
func (p *Poller) sendFailure(msg string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while sending: %v", r)
		}
	}()
	return p.notifier.Send(msg)
}

func (p *Poller) record(ctx context.Context, kind, text string) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(ctx, p.chatID, kind, text); err != nil {
		p.log.Warn("journal write failed", "kind", kind, "error", err)
	}
}
