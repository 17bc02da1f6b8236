// Package notify sends email and SMS without letting delivery problems reach
// the caller.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Email struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// Dispatcher fans messages out to the email and SMS channels. Every send runs
// on its own goroutine; failures are logged and dropped.
type Dispatcher struct {
	mail        Mailer
	sms         SMSSender
	countryCode string
	timeout     time.Duration
	log         *zap.Logger
	wg          sync.WaitGroup
}

type Option func(*Dispatcher)

// WithCountryCode sets the prefix given to numbers without one. Defaults to +91.
func WithCountryCode(code string) Option {
	return func(d *Dispatcher) {
		if code != "" {
			d.countryCode = code
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDispatcher(mail Mailer, sms SMSSender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		mail:        mail,
		sms:         sms,
		countryCode: "+91",
		timeout:     15 * time.Second,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.Named("notify")
	return d
}

// Email queues msg. Messages without a recipient are skipped.
func (d *Dispatcher) Email(ctx context.Context, msg Email) {
	if strings.TrimSpace(msg.To) == "" || d.mail == nil {
		return
	}
	d.run(ctx, "email", msg.To, func(ctx context.Context) error {
		return d.mail.Send(ctx, msg)
	})
}

// SMS queues body for phone, adding the country code when it has none.
func (d *Dispatcher) SMS(ctx context.Context, phone, body string) {
	to := NormalizePhone(phone, d.countryCode)
	if to == "" || d.sms == nil {
		return
	}
	d.run(ctx, "sms", to, func(ctx context.Context) error {
		return d.sms.Send(ctx, to, body)
	})
}

// Wait blocks until every queued send has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, channel, to string, send func(context.Context) error) {
	// The request that triggered the send may finish first.
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return send(ctx)
		}()
		if err != nil {
			d.log.Error("notification failed",
				zap.String("channel", channel), zap.String("to", to), zap.Error(err))
			return
		}
		d.log.Debug("notification sent", zap.String("channel", channel), zap.String("to", to))
	}()
}

// NormalizePhone strips spaces and dashes and prefixes domestic numbers with
// countryCode. Empty input stays empty.
func NormalizePhone(phone, countryCode string) string {
	phone = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return countryCode + phone
}
