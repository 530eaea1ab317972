package queue

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/leadline-hq/crm-api/internal/entity"
)

// NotificationSender delivers the "a lead just landed" message to the
// configured inbox.
type NotificationSender interface {
	SendLeadNotification(to, headline, email, business, source string) error
}

// Worker consumes activity events off the queue and turns lead_created
// events into notification emails. Everything else is acked and skipped.
type Worker struct {
	Channel *amqp.Channel
	Sender  NotificationSender
	To      string
	Log     *logrus.Logger
}

func NewWorker(ch *amqp.Channel, sender NotificationSender, to string, log *logrus.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
		To:      to,
		Log:     log,
	}
}

func (w *Worker) Start(queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go w.consume(msgs)
	w.Log.WithField("queue", queueName).Info("notification worker running")
	return nil
}

func (w *Worker) consume(msgs <-chan amqp.Delivery) {
	for d := range msgs {
		var payload ActivityPayload
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			w.Log.WithError(err).Warn("malformed activity event, dead-lettering")
			d.Nack(false, false)
			continue
		}

		if payload.Type != entity.ActivityLeadCreated {
			d.Ack(false)
			continue
		}

		if err := w.notify(payload); err != nil {
			// Notifications are not retried; a failed send dead-letters.
			w.Log.WithError(err).WithField("leadId", payload.LeadID).Error("lead notification failed")
			d.Nack(false, false)
			continue
		}

		d.Ack(false)
	}
}

func (w *Worker) notify(payload ActivityPayload) error {
	email, _ := payload.Meta["email"].(string)
	business, _ := payload.Meta["business"].(string)
	source, _ := payload.Meta["source"].(string)

	return w.Sender.SendLeadNotification(w.To, payload.Message, email, business, source)
}
