package firebase

import (
	"context"
	"fmt"
	"log"
	"strconv"

	fcm "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/amityadav/policyfeed/internal/feed"
)

const appName = "智能建造政策速递"

// messenger is the subset of *messaging.Client the sender needs
type messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Sender pushes new-record announcements to an FCM topic
type Sender struct {
	client messenger
	topic  string
}

// NewSender creates a new Firebase Sender from service account JSON file
func NewSender(ctx context.Context, serviceAccountPath, topic string) (*Sender, error) {
	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := fcm.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[Firebase] Initialized FCM sender")
	return &Sender{client: client, topic: topic}, nil
}

// SendToTopic sends a notification to every device subscribed to topic
func (s *Sender) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Icon:  "ic_launcher",
				Color: "#6366F1",
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	log.Printf("[Firebase] Topic notification sent to %s: %s", topic, response)
	return nil
}

// NotifyNewRecords announces the records a run inserted
func (s *Sender) NotifyNewRecords(ctx context.Context, records []feed.Record) error {
	if len(records) == 0 {
		return nil
	}
	title := fmt.Sprintf("%s - 新增 %d 条资讯", appName, len(records))
	return s.SendToTopic(ctx, s.topic, title, buildNotificationBody(records), map[string]string{
		"type":  "new_records",
		"count": strconv.Itoa(len(records)),
		"link":  records[0].Link,
	})
}

// buildNotificationBody names the first new title and counts the rest
func buildNotificationBody(records []feed.Record) string {
	first := records[0].Title
	if len(records) == 1 {
		return fmt.Sprintf("「%s」", first)
	}
	return fmt.Sprintf("「%s」等 %d 条", first, len(records))
}
