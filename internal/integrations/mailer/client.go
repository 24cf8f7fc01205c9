package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// DefaultSendTimeout ограничивает сессию с relay, если у контекста нет дедлайна
const DefaultSendTimeout = 30 * time.Second

type sendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// headerSanitizer убирает переводы строк из значений заголовков
var headerSanitizer = strings.NewReplacer("\r", "", "\n", "")

// Client отправляет письма через SMTP relay
type Client struct {
	addr string
	from string
	auth smtp.Auth
	send sendFunc
	log  Logger
}

// NewClient создает SMTP клиента. Если username пустой, отправка идет без авторизации
func NewClient(host string, port int, username, password, from string, log Logger) *Client {
	host = strings.TrimSpace(host)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "noreply@smartqueue.ai"
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &Client{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		from: from,
		auth: auth,
		send: sendMail,
		log:  log,
	}
}

// Send отправляет текстовое письмо. Сессия с relay прерывается по дедлайну или отмене ctx
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(to))
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidRecipient, to, err)
	}

	msg := buildMessage(c.from, addr.Address, subject, body)
	if err := c.send(ctx, c.addr, c.auth, c.from, []string{addr.Address}, []byte(msg)); err != nil {
		c.log.Error("Mailer: failed to send %q to %s: %v", subject, addr.Address, err)
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	c.log.Info("Mailer: sent %q to %s", subject, addr.Address)
	return nil
}

// sendMail повторяет smtp.SendMail, но с соединением, привязанным к ctx
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(DefaultSendTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return err
	}

	// Отмена без дедлайна тоже должна разбудить чтение ответа сервера
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	err = converse(conn, host, a, from, to, msg)
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

func converse(conn net.Conn, host string, a smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := client.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := client.Auth(a); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: SmartQueue AI <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		headerSanitizer.Replace(from),
		headerSanitizer.Replace(to),
		mime.QEncoding.Encode("utf-8", headerSanitizer.Replace(subject)),
		body,
	)
}
