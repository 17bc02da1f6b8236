package services

import (
	"context"
	"io"
	"sync"

	"github.com/Vidhyalakshmi16/svm-mobiles/notify"
)

type sms struct {
	Phone string
	Body  string
}

// recordingNotifier captures messages synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	emails []notify.Email
	sms    []sms
}

func (n *recordingNotifier) Email(ctx context.Context, msg notify.Email) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, msg)
}

func (n *recordingNotifier) SMS(ctx context.Context, phone, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sms = append(n.sms, sms{Phone: phone, Body: body})
}

func (n *recordingNotifier) subjects() []string {
	out := make([]string, 0, len(n.emails))
	for _, e := range n.emails {
		out = append(out, e.Subject)
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.emails, n.sms = nil, nil
}

type recordingEvents struct {
	events []Event
}

func (r *recordingEvents) Publish(e Event) {
	r.events = append(r.events, e)
}

// fakeImages stores nothing and returns predictable URLs.
type fakeImages struct {
	saved   []string
	deleted []string
}

func (f *fakeImages) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	url := "/uploads/products/" + name
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImages) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func ptr[T any](v T) *T { return &v }
