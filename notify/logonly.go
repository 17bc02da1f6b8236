package notify

import (
	"context"

	"github.com/Vidhyalakshmi16/svm-mobiles/config"
	"go.uber.org/zap"
)

// LogMailer stands in for SMTP when no mail server is configured.
type LogMailer struct {
	Log *zap.Logger
}

func (l LogMailer) Send(ctx context.Context, e Email) error {
	l.Log.Info("email not sent, no mail server configured",
		zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

// LogSMS stands in for Twilio when no credentials are configured.
type LogSMS struct {
	Log *zap.Logger
}

func (l LogSMS) Send(ctx context.Context, to, body string) error {
	l.Log.Info("sms not sent, no provider configured", zap.String("to", to), zap.String("body", body))
	return nil
}

// Channels picks the real providers when configured and log-only ones otherwise.
func Channels(mail config.MailConfig, sms config.SMSConfig, log *zap.Logger) (Mailer, SMSSender, error) {
	var (
		mailer Mailer    = LogMailer{Log: log}
		sender SMSSender = LogSMS{Log: log}
	)
	if mail.Enabled() {
		smtp, err := NewSMTP(mail)
		if err != nil {
			return nil, nil, err
		}
		mailer = smtp
	} else {
		log.Warn("mail.host or mail.username not set, emails will only be logged")
	}
	if sms.Enabled() {
		sender = NewTwilio(sms)
	} else {
		log.Warn("twilio credentials not set, sms will only be logged")
	}
	return mailer, sender, nil
}
