package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sendgate-backend/internal/email/dispatch"
	emaildomain "sendgate-backend/internal/email/domain"
	emaildto "sendgate-backend/internal/email/dto"
	"sendgate-backend/internal/email/repository"
	"sendgate-backend/internal/email/usecase"
	"sendgate-backend/pkg/config"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(_ context.Context, email *emaildomain.Email) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email.ID)
	return "provider-id", nil
}

func setup(t *testing.T, m *fakeMailer, simulateDelivery bool) (*dispatch.Dispatcher, usecase.EmailUsecase) {
	t.Helper()
	repo := repository.NewMemoryEmailRepository()
	uc := usecase.NewEmailUsecase(repo, &config.Config{FromAddress: "noreply@sendgate.io"})
	d := dispatch.NewDispatcher(repo, uc, m, time.Minute, 10, simulateDelivery)
	return d, uc
}

func TestDispatchPendingDeliversEmail(t *testing.T) {
	m := &fakeMailer{}
	d, uc := setup(t, m, true)

	resp, err := uc.SendEmail(&emaildto.SendEmailRequest{To: "a@b.com", Subject: "hi"}, "user-1")
	require.NoError(t, err)

	d.DispatchPending(context.Background())

	require.Equal(t, []string{resp.ID}, m.sent)

	email, err := uc.GetEmailByID(resp.ID)
	require.NoError(t, err)
	require.Equal(t, emaildomain.StatusDelivered, email.Status)
	require.NotNil(t, email.SentAt)
	require.NotNil(t, email.DeliveredAt)

	logs, err := uc.GetEmailLogs(resp.ID)
	require.NoError(t, err)
	events := make([]emaildomain.LogEvent, 0, len(logs))
	for _, l := range logs {
		events = append(events, l.Event)
	}
	require.Equal(t, []emaildomain.LogEvent{
		emaildomain.EventCreated,
		emaildomain.EventQueued,
		emaildomain.EventSending,
		emaildomain.EventSent,
		emaildomain.EventDelivered,
	}, events)
}

func TestDispatchStopsAtSentWithoutSimulation(t *testing.T) {
	m := &fakeMailer{}
	d, uc := setup(t, m, false)

	resp, err := uc.SendEmail(&emaildto.SendEmailRequest{To: "a@b.com", Subject: "hi"}, "user-1")
	require.NoError(t, err)

	d.DispatchPending(context.Background())

	email, err := uc.GetEmailByID(resp.ID)
	require.NoError(t, err)
	require.Equal(t, emaildomain.StatusSent, email.Status)
	require.Nil(t, email.DeliveredAt)
}

func TestDispatchMarksFailureWithError(t *testing.T) {
	m := &fakeMailer{err: errors.New("provider rejected message")}
	d, uc := setup(t, m, true)

	resp, err := uc.SendEmail(&emaildto.SendEmailRequest{To: "a@b.com", Subject: "hi"}, "user-1")
	require.NoError(t, err)

	d.DispatchPending(context.Background())

	email, err := uc.GetEmailByID(resp.ID)
	require.NoError(t, err)
	require.Equal(t, emaildomain.StatusFailed, email.Status)
	require.Equal(t, "provider rejected message", email.ErrorMessage)
	require.Equal(t, 1, email.RetryCount)
	require.Nil(t, email.SentAt)

	logs, err := uc.GetEmailLogs(resp.ID)
	require.NoError(t, err)
	last := logs[len(logs)-1]
	require.Equal(t, emaildomain.EventFailed, last.Event)
	require.Equal(t, "provider rejected message", last.Details)

	// A failed email is never picked up again.
	d.DispatchPending(context.Background())
	email, err = uc.GetEmailByID(resp.ID)
	require.NoError(t, err)
	require.Equal(t, 1, email.RetryCount)
}
