package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework-bot/api/internal/homework"
	"homework-bot/api/internal/logging"
)

type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
	log      *slog.Logger
}

func New(endpoint, token string, log *slog.Logger) *Client {
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc:    &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

// Fetch запрашивает статусы работ, изменившиеся начиная с fromDate (unix).
// Возвращает разобранное тело ответа; числа остаются json.Number.
func (c *Client) Fetch(ctx context.Context, fromDate int64) (map[string]any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("practicum endpoint: %w", err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("practicum request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("practicum request failed", "error", err)
		return nil, homework.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		logging.Critical(ctx, c.log, "Эндпоинт не доступен", "status", resp.StatusCode, "endpoint", c.endpoint)
		return nil, homework.EndpointUnavailable(fmt.Sprintf("код ответа %d", resp.StatusCode))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, homework.Malformed("тело ответа не JSON-объект", err)
	}
	if out == nil {
		return nil, homework.Malformed("тело ответа null", nil)
	}
	return out, nil
}
