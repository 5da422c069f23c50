package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"example.com/furnish/services/serial/config"
	"example.com/furnish/services/serial/internal/models"
)

// UnitLifecycleMessage is published to the ERP queue for every accepted
// mutation so downstream accounting and POS systems can react.
type UnitLifecycleMessage struct {
	SerialUnitID string               `json:"serial_unit_id"`
	SerialNumber string               `json:"serial_number"`
	Action       models.HistoryAction `json:"action"`
	FromStatus   *models.UnitStatus   `json:"from_status,omitempty"`
	ToStatus     *models.UnitStatus   `json:"to_status,omitempty"`
	BranchID     string               `json:"branch_id"`
	Position     string               `json:"position"`
	OrderID      *string              `json:"order_id,omitempty"`
	CustomerID   *string              `json:"customer_id,omitempty"`
	PerformedBy  string               `json:"performed_by"`
	PerformedAt  time.Time            `json:"performed_at"`
}

// Publisher defines the interface for publishing lifecycle messages
type Publisher interface {
	PublishLifecycleMessage(ctx context.Context, message *UnitLifecycleMessage) error
	Close(ctx context.Context) error
}

// serviceBusPublisher implements Publisher using Azure Service Bus
type serviceBusPublisher struct {
	client  *azservicebus.Client
	queue   string
	enabled bool
}

// NewServiceBusPublisher creates a new publisher. With no connection string
// configured, publishing is a no-op.
func NewServiceBusPublisher(cfg *config.ServiceBusConfig) (Publisher, error) {
	if cfg.ConnectionString == "" {
		return &serviceBusPublisher{enabled: false}, nil
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create service bus client: %w", err)
	}

	return &serviceBusPublisher{
		client:  client,
		queue:   cfg.ERPQueueName,
		enabled: true,
	}, nil
}

// PublishLifecycleMessage publishes one message to the ERP queue
func (p *serviceBusPublisher) PublishLifecycleMessage(ctx context.Context, message *UnitLifecycleMessage) error {
	if !p.enabled {
		return nil
	}

	sender, err := p.client.NewSender(p.queue, nil)
	if err != nil {
		return fmt.Errorf("failed to create sender for queue %s: %w", p.queue, err)
	}
	defer sender.Close(ctx)

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal lifecycle message: %w", err)
	}

	if err := sender.SendMessage(ctx, &azservicebus.Message{Body: body}, nil); err != nil {
		return fmt.Errorf("failed to send lifecycle message: %w", err)
	}
	return nil
}

// Close closes the underlying connection
func (p *serviceBusPublisher) Close(ctx context.Context) error {
	if !p.enabled {
		return nil
	}
	return p.client.Close(ctx)
}
