package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFormat(t *testing.T) {
	created := Format(Event{
		Type:          EventTicketCreated,
		StoreName:     "Fade",
		TicketNumber:  7,
		Position:      3,
		EstimatedWait: 12,
		SecretCode:    "4821",
	})
	assert.Contains(t, created, "Ticket Booked")
	assert.Contains(t, created, "Ticket #: 7")
	assert.Contains(t, created, "Position: 3")
	assert.Contains(t, created, "~12 mins")
	assert.Contains(t, created, "4821")

	called := Format(Event{Type: EventTicketCalled, StoreName: "Fade", TicketNumber: 7, SecretCode: "4821"})
	assert.Contains(t, called, "IT'S YOUR TURN")

	completed := Format(Event{Type: EventTicketCompleted, StoreName: "Fade", TicketNumber: 7, ServiceMinutes: 9})
	assert.Contains(t, completed, "Service Time: 9 mins")
}

func TestNewTicketTask(t *testing.T) {
	ev := Event{Type: EventTicketCalled, TicketID: 3, StoreID: 1, TicketNumber: 2}

	task, err := NewTicketTask(ev)
	require.NoError(t, err)
	assert.Equal(t, TypeNotifyTicket, task.Type())

	var got Event
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, ev, got)
}

type recordingSender struct {
	texts []string
	err   error
}

func (s *recordingSender) Send(_ context.Context, _ Event, text string) error {
	s.texts = append(s.texts, text)
	return s.err
}

func TestWorkerHandleTicketTask(t *testing.T) {
	sender := &recordingSender{}
	w := NewWorker(asynq.RedisClientOpt{Addr: "localhost:0"}, sender, discardLogger(), WorkerConfig{})

	task, err := NewTicketTask(Event{Type: EventTicketCompleted, StoreName: "Fade", ServiceMinutes: 4})
	require.NoError(t, err)

	require.NoError(t, w.HandleTicketTask(context.Background(), task))
	require.Len(t, sender.texts, 1)
	assert.Contains(t, sender.texts[0], "Service Time: 4 mins")

	bad := asynq.NewTask(TypeNotifyTicket, []byte("{"))
	assert.ErrorIs(t, w.HandleTicketTask(context.Background(), bad), asynq.SkipRetry)

	sender.err = errors.New("unreachable")
	assert.Error(t, w.HandleTicketTask(context.Background(), task))
}

func TestInlineEmitter(t *testing.T) {
	sender := &recordingSender{}
	e := NewInlineEmitter(sender)

	require.NoError(t, e.Emit(context.Background(), Event{Type: EventTicketCalled, TicketNumber: 5}))
	require.Len(t, sender.texts, 1)
	assert.Contains(t, sender.texts[0], "Ticket #: 5")
}

func TestWhatsAppSender(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody whatsAppMessage
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewWhatsAppSender(WhatsAppConfig{
		PhoneID: "12345",
		Token:   "secret",
		To:      "15550001111",
		BaseURL: srv.URL,
	}, srv.Client())

	require.NoError(t, s.Send(context.Background(), Event{}, "hello"))
	assert.Equal(t, "/12345/messages", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "whatsapp", gotBody.MessagingProduct)
	assert.Equal(t, "text", gotBody.Type)
	assert.Equal(t, "15550001111", gotBody.To)
	assert.Equal(t, "hello", gotBody.Text.Body)
}

func TestWhatsAppSenderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewWhatsAppSender(WhatsAppConfig{PhoneID: "1", BaseURL: srv.URL}, srv.Client())

	err := s.Send(context.Background(), Event{}, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
