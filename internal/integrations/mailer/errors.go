package mailer

import "errors"

var (
	// ErrInvalidRecipient возвращается, когда адрес получателя пуст или некорректен
	ErrInvalidRecipient = errors.New("mailer: invalid recipient")

	// ErrSend возвращается при ошибке отправки через SMTP
	ErrSend = errors.New("mailer: failed to send email")
)
