package firebase

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"

	"github.com/amityadav/policyfeed/internal/feed"
)

type fakeMessenger struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeMessenger) Send(ctx context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/p/messages/1", nil
}

func TestNotifyNewRecords(t *testing.T) {
	fake := &fakeMessenger{}
	s := &Sender{client: fake, topic: "policy-feed"}

	records := []feed.Record{
		{Title: "住建部推进智能建造", Link: "https://a/1"},
		{Title: "BIM 新标准", Link: "https://a/2"},
	}
	if err := s.NotifyNewRecords(context.Background(), records); err != nil {
		t.Fatalf("NotifyNewRecords() error: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages", len(fake.sent))
	}
	m := fake.sent[0]
	if m.Topic != "policy-feed" || m.Notification.Body != "「住建部推进智能建造」等 2 条" {
		t.Errorf("message = %+v / %+v", m, m.Notification)
	}
	if m.Data["count"] != "2" || m.Data["link"] != "https://a/1" {
		t.Errorf("data = %v", m.Data)
	}

	if err := s.NotifyNewRecords(context.Background(), nil); err != nil || len(fake.sent) != 1 {
		t.Error("empty batch should send nothing")
	}
}

func TestSendToTopicError(t *testing.T) {
	boom := errors.New("unavailable")
	s := &Sender{client: &fakeMessenger{err: boom}, topic: "t"}
	if err := s.SendToTopic(context.Background(), "t", "a", "b", nil); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}
