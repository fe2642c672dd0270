package homework

import (
	"encoding/json"
	"fmt"
)

// CheckResponse достаёт массив homeworks из разобранного ответа API.
// Пустой массив валиден: новых статусов нет. Записи возвращаются как есть,
// их форму проверяет ParseStatus по одной.
func CheckResponse(body map[string]any) ([]any, error) {
	raw, ok := body["homeworks"]
	if !ok {
		return nil, Malformed("нет ключа homeworks", nil)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, Malformed(fmt.Sprintf("homeworks должен быть списком, получен %s", jsonType(raw)), nil)
	}
	return items, nil
}

// CurrentDate — метка времени сервера из ответа, если она есть и целая.
func CurrentDate(body map[string]any) (int64, bool) {
	switch v := body["current_date"].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// Messages прогоняет ответ через проверку и форматирование целиком.
// На одном и том же ответе всегда даёт одну и ту же последовательность.
func Messages(body map[string]any) ([]string, error) {
	records, err := CheckResponse(body)
	if err != nil {
		return nil, err
	}
	msgs := make([]string, 0, len(records))
	for _, rec := range records {
		m, err := ParseStatus(rec)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
