package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Vidhyalakshmi16/svm-mobiles/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (r *recordingMailer) Send(ctx context.Context, e Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, e)
	return r.err
}

type recordingSMS struct {
	mu   sync.Mutex
	to   []string
	err  error
	hang bool
}

func (r *recordingSMS) Send(ctx context.Context, to, body string) error {
	if r.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.to = append(r.to, to)
	return r.err
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"9876543210":      "+919876543210",
		"+14155550123":    "+14155550123",
		" 98765 43210 ":   "+919876543210",
		"(044) 2345-6789": "+9104423456789",
		"":                "",
		"   ":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in, "+91"), in)
	}
}

func TestDispatcherSendsBothChannels(t *testing.T) {
	mailer := &recordingMailer{}
	sms := &recordingSMS{}
	d := NewDispatcher(mailer, sms)

	ctx, cancel := context.WithCancel(context.Background())
	d.Email(ctx, Email{To: "a@svm.test", Subject: "hi", HTML: "<p>hi</p>"})
	d.SMS(ctx, "9876543210", "hello")
	cancel() // a finished request must not cancel pending sends
	d.Wait()

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@svm.test", mailer.sent[0].To)
	assert.Equal(t, []string{"+919876543210"}, sms.to)
}

func TestDispatcherSkipsMissingRecipients(t *testing.T) {
	mailer := &recordingMailer{}
	sms := &recordingSMS{}
	d := NewDispatcher(mailer, sms)

	d.Email(context.Background(), Email{Subject: "no one"})
	d.SMS(context.Background(), "", "no one")
	d.Wait()

	assert.Empty(t, mailer.sent)
	assert.Empty(t, sms.to)
}

func TestDispatcherIsolatesFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	mailer := &recordingMailer{err: errors.New("smtp down")}
	sms := &recordingSMS{}
	d := NewDispatcher(mailer, sms, WithLogger(zap.New(core)))

	d.Email(context.Background(), Email{To: "a@svm.test"})
	d.SMS(context.Background(), "+15550001", "still delivered")
	d.Wait()

	assert.Equal(t, []string{"+15550001"}, sms.to)
	entries := logs.FilterMessage("notification failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "email", entries[0].ContextMap()["channel"])
}

func TestDispatcherTimeout(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	sms := &recordingSMS{hang: true}
	d := NewDispatcher(nil, sms, WithTimeout(10*time.Millisecond), WithLogger(zap.New(core)))

	d.SMS(context.Background(), "9876543210", "slow")
	d.Wait()
	assert.Equal(t, 1, logs.FilterMessage("notification failed").Len())
}

type panicSMS struct{}

func (panicSMS) Send(ctx context.Context, to, body string) error { panic("provider bug") }

func TestDispatcherRecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	d := NewDispatcher(nil, panicSMS{}, WithLogger(zap.New(core)))
	d.SMS(context.Background(), "9876543210", "boom")
	d.Wait()
	assert.Equal(t, 1, logs.FilterMessage("notification failed").Len())
}

func TestChannelsFallBackToLogging(t *testing.T) {
	mailer, sms, err := Channels(config.MailConfig{}, config.SMSConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, LogMailer{}, mailer)
	assert.IsType(t, LogSMS{}, sms)
	assert.NoError(t, mailer.Send(context.Background(), Email{To: "a@svm.test"}))
}

func TestChannelsUseProviders(t *testing.T) {
	mailer, sms, err := Channels(
		config.MailConfig{Host: "smtp.svm.test", Port: 587, Username: "mailer", Password: "x"},
		config.SMSConfig{AccountSID: "AC1", AuthToken: "tok", From: "+15550000"},
		zap.NewNop(),
	)
	require.NoError(t, err)
	assert.IsType(t, &SMTP{}, mailer)
	assert.IsType(t, &Twilio{}, sms)
}
