package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/wind"
)

// PubSubHandler handles Pub/Sub refresh triggers for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	refresher        *Refresher
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Refresher        *Refresher
	Logger           zerolog.Logger
}

// ReconcileMessage asks the worker to reconcile a new location. The location
// supersedes the current target for all following cycles.
type ReconcileMessage struct {
	JobType string  `json:"job_type"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		refresher:        cfg.Refresher,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var reconcileMsg ReconcileMessage
	if err := json.Unmarshal(msg.Data, &reconcileMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	if reconcileMsg.JobType != "reconcile" {
		logger.Warn().Str("job_type", reconcileMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err := h.handleReconcile(ctx, reconcileMsg); err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Float64("lat", reconcileMsg.Lat).
		Float64("lon", reconcileMsg.Lon).
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleReconcile(ctx context.Context, msg ReconcileMessage) error {
	if err := wind.ValidateCoordinates(msg.Lat, msg.Lon); err != nil {
		// Invalid coordinates won't become valid on redelivery, so the
		// message is consumed with a hard error in the log.
		h.logger.Error().
			Float64("lat", msg.Lat).
			Float64("lon", msg.Lon).
			Msg("discarding message with invalid coordinates")
		return nil
	}

	h.refresher.SetTarget(Point{Lat: msg.Lat, Lon: msg.Lon})
	return h.refresher.RefreshNow(ctx)
}
