package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	failures int
	calls    int
	sent     []*mail.Message
}

func (f *fakeSender) DialAndSend(m ...*mail.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	f.sent = append(f.sent, m...)
	return nil
}

func render(t *testing.T, m *mail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestMailer_SendConfirmation(t *testing.T) {
	sender := &fakeSender{}
	m := NewWithSender(sender, "Taskboard <accounts@taskboard.local>", "http://localhost:5173/")

	require.NoError(t, m.SendConfirmation(context.Background(), "ana@example.com", "Ana", "tok123"))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Taskboard - Confirm your account"}, msg.GetHeader("Subject"))
	assert.Contains(t, render(t, msg), "http://localhost:5173/confirm/tok123")
}

func TestMailer_RetriesThenGivesUp(t *testing.T) {
	sender := &fakeSender{failures: 2}
	m := NewWithSender(sender, "from@example.com", "http://app")
	require.NoError(t, m.SendPasswordReset(context.Background(), "ana@example.com", "Ana", "tok"))
	assert.Equal(t, 3, sender.calls)
	assert.Contains(t, render(t, sender.sent[0]), "http://app/forgot-password/tok")

	always := &fakeSender{failures: 10}
	m = NewWithSender(always, "from@example.com", "http://app")
	err := m.SendPasswordReset(context.Background(), "ana@example.com", "Ana", "tok")
	assert.Error(t, err)
	assert.Equal(t, sendAttempts, always.calls)
}
