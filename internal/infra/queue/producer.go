package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/leadline-hq/crm-api/internal/entity"
)

// ActivityPayload is the wire shape of an activity event on the exchange.
type ActivityPayload struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	LeadID   string         `json:"leadId,omitempty"`
	ClientID string         `json:"clientId,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

type Producer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *Producer {
	return &Producer{Conn: conn, Ch: ch}
}

func (p *Producer) PublishActivity(ctx context.Context, activity *entity.Activity) error {
	payload := ActivityPayload{
		Type:     activity.Type,
		Message:  activity.Message,
		LeadID:   activity.LeadID,
		ClientID: activity.ClientID,
		Meta:     activity.Meta,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal activity payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}

	return nil
}
