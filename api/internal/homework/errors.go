package homework

import "errors"

// Kind — закрытый набор причин, по которым цикл опроса может сорваться.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindEndpointUnavailable
	KindMalformedResponse
	KindMissingTitle
	KindMissingStatus
	KindUnknownStatus
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindEndpointUnavailable:
		return "endpoint_unavailable"
	case KindMalformedResponse:
		return "malformed_response"
	case KindMissingTitle:
		return "missing_title"
	case KindMissingStatus:
		return "missing_status"
	case KindUnknownStatus:
		return "unknown_status"
	case KindDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Error несёт вид ошибки и текст, который уйдёт пользователю в чат.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is сравнивает только Kind, чтобы errors.Is(err, ErrMissingTitle) работал
// для любой ошибки этого вида.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrTransport           = &Error{Kind: KindTransport, Msg: "Сбой сети при обращении к эндпоинту"}
	ErrEndpointUnavailable = &Error{Kind: KindEndpointUnavailable, Msg: "Эндпоинт не доступен"}
	ErrMalformedResponse   = &Error{Kind: KindMalformedResponse, Msg: "Некорректный ответ API"}
	ErrMissingTitle        = &Error{Kind: KindMissingTitle, Msg: "Нет названия домашней работы"}
	ErrMissingStatus       = &Error{Kind: KindMissingStatus, Msg: "Нет статуса работы"}
	ErrUnknownStatus       = &Error{Kind: KindUnknownStatus, Msg: "У домашней работы неизвестный статус"}
	ErrDelivery            = &Error{Kind: KindDelivery, Msg: "Не удалось отправить сообщение в Telegram"}
)

func newError(base *Error, detail string, cause error) *Error {
	msg := base.Msg
	if detail != "" {
		msg += " (" + detail + ")"
	}
	return &Error{Kind: base.Kind, Msg: msg, Err: cause}
}

// Transport оборачивает сетевую ошибку.
func Transport(cause error) *Error { return newError(ErrTransport, "", cause) }

// EndpointUnavailable — ответ пришёл, но код не 200.
func EndpointUnavailable(detail string) *Error { return newError(ErrEndpointUnavailable, detail, nil) }

// Delivery — бот не смог доставить сообщение в чат.
func Delivery(cause error) *Error { return newError(ErrDelivery, "", cause) }

func Malformed(detail string, cause error) *Error {
	return newError(ErrMalformedResponse, detail, cause)
}

// KindOf возвращает KindUnknown для всего, что не *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
