package homework

import "fmt"

const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

var verdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена, в ней нашлись ошибки.",
}

// Record — одна запись из массива homeworks, как её вернул API.
type Record map[string]any

// Verdict возвращает текст вердикта для кода статуса.
func Verdict(status string) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// ParseStatus собирает текст уведомления по одной записи.
// Порядок проверок: запись — объект, название, статус, затем поиск вердикта.
func ParseStatus(item any) (string, error) {
	rec, ok := asRecord(item)
	if !ok {
		return "", Malformed(fmt.Sprintf("запись не объект, получен %s", jsonType(item)), nil)
	}
	name, ok := rec["homework_name"].(string)
	if !ok || name == "" {
		return "", newError(ErrMissingTitle, "", nil)
	}
	status, ok := rec["status"].(string)
	if !ok || status == "" {
		return "", newError(ErrMissingStatus, name, nil)
	}
	verdict, ok := Verdict(status)
	if !ok {
		return "", newError(ErrUnknownStatus, fmt.Sprintf("%s: %q", name, status), nil)
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict), nil
}

func asRecord(item any) (Record, bool) {
	switch v := item.(type) {
	case Record:
		return v, true
	case map[string]any:
		return Record(v), true
	default:
		return nil, false
	}
}
