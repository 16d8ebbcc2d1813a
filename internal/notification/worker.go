package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"fleet-ops-backend/internal/model"
)

// Alert categories a subscription can listen on.
const (
	CategoryLowStock     = "LowStock"
	CategoryServiceAlert = "ServiceAlert"
	CategoryCompliance   = "Compliance"
)

// Alert is one push-notification job.
type Alert struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Sender defines the interface for delivering a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans emitted alerts out to matching push subscriptions.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case alert := <-wp.jobs:
			wp.deliver(ctx, alert)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert without blocking the caller; when the queue is
// full the alert is dropped with a log line. Delivery is best-effort.
func (wp *WorkerPool) Dispatch(alert Alert) {
	select {
	case wp.jobs <- alert:
	default:
		log.Printf("Notification queue full, dropping %s alert %q", alert.Category, alert.Title)
	}
}

// deliver fetches the subscriptions listening on the alert's category and
// pushes to each.
func (wp *WorkerPool) deliver(ctx context.Context, alert Alert) {
	var subscriptions []model.AlertSubscription
	err := wp.db.WithContext(ctx).Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for %s alert: %v", alert.Category, err)
		return
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		log.Printf("Error marshalling alert payload: %v", err)
		return
	}

	for _, sub := range subscriptions {
		if !subscribed(sub.Categories, alert.Category) {
			continue
		}
		wp.push(ctx, sub, payload)
	}
}

// subscribed reports whether a comma-joined category list contains category.
// An empty list means all categories.
func subscribed(categories, category string) bool {
	if strings.TrimSpace(categories) == "" {
		return true
	}
	for _, c := range strings.Split(categories, ",") {
		if strings.TrimSpace(c) == category {
			return true
		}
	}
	return false
}

// push sends a single web push notification, deleting the subscription when
// the endpoint reports it gone.
func (wp *WorkerPool) push(ctx context.Context, sub model.AlertSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
