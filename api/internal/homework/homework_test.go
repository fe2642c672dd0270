package homework

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestParseStatus_AllVerdicts(t *testing.T) {
	cases := map[string]string{
		"approved":  `Изменился статус проверки работы "proj1". Работа проверена: ревьюеру всё понравилось. Ура!`,
		"reviewing": `Изменился статус проверки работы "proj1". Работа взята на проверку ревьюером.`,
		"rejected":  `Изменился статус проверки работы "proj1". Работа проверена, в ней нашлись ошибки.`,
	}
	for status, want := range cases {
		t.Run(status, func(t *testing.T) {
			got, err := ParseStatus(Record{"homework_name": "proj1", "status": status})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseStatus_MissingTitleCheckedFirst(t *testing.T) {
	// статус тоже неизвестен, но сначала должна сработать проверка названия
	_, err := ParseStatus(Record{"status": "bogus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingTitle)
	assert.Equal(t, KindMissingTitle, KindOf(err))

	_, err = ParseStatus(Record{"homework_name": "", "status": "approved"})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = ParseStatus(Record{"homework_name": 42, "status": "approved"})
	assert.ErrorIs(t, err, ErrMissingTitle)
}

func TestParseStatus_MissingStatus(t *testing.T) {
	_, err := ParseStatus(Record{"homework_name": "proj1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingStatus)
	assert.Contains(t, err.Error(), "proj1")
}

func TestParseStatus_UnknownStatus(t *testing.T) {
	for _, status := range []string{"pending", "APPROVED", "approved "} {
		_, err := ParseStatus(Record{"homework_name": "proj1", "status": status})
		require.Error(t, err, status)
		assert.ErrorIs(t, err, ErrUnknownStatus)
		assert.False(t, errors.Is(err, ErrMissingStatus))
	}
}

func TestCheckResponse_NotASequence(t *testing.T) {
	for _, body := range []string{
		`{"homeworks": 5}`,
		`{"homeworks": {"homework_name": "x"}}`,
		`{"homeworks": "list"}`,
		`{"homeworks": null}`,
		`{"current_date": 1}`,
	} {
		_, err := CheckResponse(decode(t, body))
		require.Error(t, err, body)
		assert.ErrorIs(t, err, ErrMalformedResponse, body)
	}
}

func TestCheckResponse_LeavesItemShapeToParseStatus(t *testing.T) {
	items, err := CheckResponse(decode(t, `{"homeworks": [{"homework_name": "a", "status": "approved"}, 7]}`))
	require.NoError(t, err)
	require.Len(t, items, 2)

	msg, err := ParseStatus(items[0])
	require.NoError(t, err)
	assert.Contains(t, msg, `"a"`)

	_, err = ParseStatus(items[1])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "number")
}

func TestParseStatus_NotAnObject(t *testing.T) {
	for _, item := range []any{nil, "proj1", []any{"x"}, json.Number("1")} {
		_, err := ParseStatus(item)
		assert.Equal(t, KindMalformedResponse, KindOf(err), "%v", item)
	}
}

func TestCheckResponse_Empty(t *testing.T) {
	recs, err := CheckResponse(decode(t, `{"homeworks": [], "current_date": 1700000000}`))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCheckResponse_DoesNotValidateRecords(t *testing.T) {
	recs, err := CheckResponse(decode(t, `{"homeworks": [{"status": "bogus"}]}`))
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestCurrentDate(t *testing.T) {
	n, ok := CurrentDate(decode(t, `{"current_date": 1700000600}`))
	assert.True(t, ok)
	assert.Equal(t, int64(1700000600), n)

	_, ok = CurrentDate(decode(t, `{"current_date": 1.5}`))
	assert.False(t, ok)

	_, ok = CurrentDate(decode(t, `{"homeworks": []}`))
	assert.False(t, ok)

	n, ok = CurrentDate(map[string]any{"current_date": float64(42)})
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)
}

func TestMessages_Idempotent(t *testing.T) {
	payload := `{"homeworks": [
		{"homework_name": "b", "status": "rejected"},
		{"homework_name": "a", "status": "approved"},
		{"homework_name": "c", "status": "reviewing"}
	]}`

	first, err := Messages(decode(t, payload))
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.True(t, strings.Contains(first[0], `"b"`))
	assert.True(t, strings.Contains(first[1], `"a"`))

	for i := 0; i < 5; i++ {
		again, err := Messages(decode(t, payload))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDelivery_WrapsCause(t *testing.T) {
	cause := errors.New("Forbidden: bot was blocked by the user")
	err := Delivery(cause)
	assert.ErrorIs(t, err, ErrDelivery)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "delivery", KindOf(err).String())
}

func TestKindOf_Foreign(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, "unknown", KindOf(nil).String())
	assert.Equal(t, KindTransport, KindOf(Transport(errors.New("dial tcp: refused"))))
	assert.Contains(t, Transport(errors.New("dial tcp: refused")).Error(), "dial tcp: refused")
}
