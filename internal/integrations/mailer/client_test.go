package mailer

import (
	"bufio"
	"context"
	"errors"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SmartQueue/pkg/logger"
)

func TestSend_BuildsMessage(t *testing.T) {
	c := NewClient("mail.local", 1025, "", "", "", logger.NewNop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	c.send = func(_ context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	subject := "[SmartQueue AI] Booking Confirmed – #5"
	err := c.Send(context.Background(), "Ann <ann@example.com>", subject, "hello")

	require.NoError(t, err)
	assert.Equal(t, "mail.local:1025", gotAddr)
	assert.Equal(t, "noreply@smartqueue.ai", gotFrom)
	assert.Equal(t, []string{"ann@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "\r\n\r\nhello\r\n")

	msg, err := mail.ReadMessage(strings.NewReader(string(gotMsg)))
	require.NoError(t, err)
	raw := msg.Header.Get("Subject")
	assert.True(t, strings.HasPrefix(raw, "=?utf-8?q?"), "non-ASCII subject is encoded: %s", raw)

	decoded, err := new(mime.WordDecoder).DecodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, subject, decoded)
}

func TestSend_ASCIISubjectKeptAsIs(t *testing.T) {
	c := NewClient("mail.local", 1025, "", "", "", logger.NewNop())

	var gotMsg []byte
	c.send = func(_ context.Context, _ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	require.NoError(t, c.Send(context.Background(), "ann@example.com", "Booking Approved", "hi"))
	assert.Contains(t, string(gotMsg), "Subject: Booking Approved\r\n")
}

func TestSend_StripsLineBreaksFromHeaders(t *testing.T) {
	c := NewClient("mail.local", 1025, "", "", "", logger.NewNop())

	var gotMsg []byte
	c.send = func(_ context.Context, _ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	err := c.Send(context.Background(), "ann@example.com", "Hi\r\nBcc: evil@example.com\nX-Injected: 1", "body")
	require.NoError(t, err)

	assert.NotContains(t, string(gotMsg), "\r\nBcc:")
	assert.NotContains(t, string(gotMsg), "\nX-Injected:")

	msg, err := mail.ReadMessage(strings.NewReader(string(gotMsg)))
	require.NoError(t, err)
	assert.Empty(t, msg.Header.Get("Bcc"))
	assert.Empty(t, msg.Header.Get("X-Injected"))
	assert.Equal(t, "HiBcc: evil@example.comX-Injected: 1", msg.Header.Get("Subject"))
}

func TestSend_InvalidRecipient(t *testing.T) {
	c := NewClient("mail.local", 25, "", "", "", logger.NewNop())
	c.send = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	err := c.Send(context.Background(), "", "subject", "body")
	assert.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestSend_RelayFailure(t *testing.T) {
	c := NewClient("mail.local", 25, "user", "pass", "desk@smartqueue.ai", logger.NewNop())
	c.send = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := c.Send(context.Background(), "ann@example.com", "subject", "body")
	assert.ErrorIs(t, err, ErrSend)
}

// silentRelay принимает соединения и никогда не отвечает
func silentRelay(t *testing.T) (host string, port int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	tcpAddr := ln.Addr().(*net.TCPAddr)
	return tcpAddr.IP.String(), tcpAddr.Port
}

func TestSend_RespectsContextDeadline(t *testing.T) {
	host, port := silentRelay(t)
	c := NewClient(host, port, "", "", "", logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Send(ctx, "ann@example.com", "subject", "body")

	assert.ErrorIs(t, err, ErrSend)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSend_RespectsCancellation(t *testing.T) {
	host, port := silentRelay(t)
	c := NewClient(host, port, "", "", "", logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	err := c.Send(ctx, "ann@example.com", "subject", "body")

	assert.ErrorIs(t, err, ErrSend)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}

// fakeRelay минимальный SMTP сервер, записывающий DATA
func fakeRelay(t *testing.T) (host string, port int, received <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		reply := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }
		reply("220 relay ready")

		var data strings.Builder
		inData := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if inData {
				if line == ".\r\n" {
					inData = false
					out <- data.String()
					reply("250 queued")
					continue
				}
				data.WriteString(line)
				continue
			}

			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				reply("250 relay")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				reply("250 ok")
			case cmd == "DATA":
				inData = true
				reply("354 go ahead")
			case cmd == "QUIT":
				reply("221 bye")
				return
			default:
				reply("502 not implemented")
			}
		}
	}()

	tcpAddr := ln.Addr().(*net.TCPAddr)
	return tcpAddr.IP.String(), tcpAddr.Port, out
}

func TestSend_DeliversThroughRelay(t *testing.T) {
	host, port, received := fakeRelay(t)
	c := NewClient(host, port, "", "", "desk@smartqueue.ai", logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.Send(ctx, "ann@example.com", "Booking Approved", "see you at 10:00"))

	select {
	case data := <-received:
		assert.Contains(t, data, "From: SmartQueue AI <desk@smartqueue.ai>\r\n")
		assert.Contains(t, data, "To: ann@example.com\r\n")
		assert.Contains(t, data, "see you at 10:00")
	case <-time.After(time.Second):
		t.Fatal("relay did not receive the message")
	}
	assert.Equal(t, net.JoinHostPort(host, strconv.Itoa(port)), c.addr)
}
