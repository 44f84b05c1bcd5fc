package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/ledger"
	"github.com/fekuna/omnipos-backoffice-service/internal/ledger/dto"
	registrydto "github.com/fekuna/omnipos-backoffice-service/internal/registry/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/broker"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
)

// LedgerListener ingests storefront order events into the transaction ledger.
type LedgerListener struct {
	consumer *broker.KafkaConsumer
	uc       ledger.UseCase
	logger   logger.ZapLogger
}

func NewLedgerListener(consumer *broker.KafkaConsumer, uc ledger.UseCase, logger logger.ZapLogger) *LedgerListener {
	return &LedgerListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *LedgerListener) Start(ctx context.Context) {
	l.logger.Info("Starting Ledger Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Ledger Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderPlacedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	UserID           string             `json:"user_id"`
	Address          AddressPayload     `json:"address"`
	DeliveryProvider string             `json:"delivery_provider"`
	PaymentMethod    string             `json:"payment_method"`
	Items            []OrderItemPayload `json:"items"`
}

type AddressPayload struct {
	Country     string `json:"country"`
	Province    string `json:"province"`
	City        string `json:"city"`
	Street      string `json:"street"`
	BuildingNo  string `json:"building_no"`
	ApartmentNo string `json:"apartment_no"`
	PostalCode  string `json:"postal_code"`
}

type OrderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (l *LedgerListener) processMessage(ctx context.Context, value []byte) {
	var event OrderPlacedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderPlaced" {
		return
	}

	l.logger.Info("Processing OrderPlaced event", zap.String("event_id", event.EventID))

	input := &dto.CreateOrderInput{
		UserID: event.Payload.UserID,
		Address: registrydto.AddressInput{
			Country:     event.Payload.Address.Country,
			Province:    event.Payload.Address.Province,
			City:        event.Payload.Address.City,
			Street:      event.Payload.Address.Street,
			BuildingNo:  event.Payload.Address.BuildingNo,
			ApartmentNo: event.Payload.Address.ApartmentNo,
			PostalCode:  event.Payload.Address.PostalCode,
		},
		DeliveryProviderName: event.Payload.DeliveryProvider,
		PaymentMethodName:    event.Payload.PaymentMethod,
	}
	for _, item := range event.Payload.Items {
		input.LineItems = append(input.LineItems, dto.OrderLineItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := l.uc.CreateOrder(ctx, input)
	if err != nil {
		l.logger.Error("Failed to ingest storefront order",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("Ingested storefront order",
		zap.String("event_id", event.EventID),
		zap.String("order_id", order.ID),
	)
}
