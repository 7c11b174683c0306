package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"vertex-crm/models"
	"vertex-crm/utils"
)

const clientCacheTTL = 24 * time.Hour

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ClientConsumer projects client events into the per-client redis cache and
// the elasticsearch index. es may be nil when search is not configured.
type ClientConsumer struct {
	cache    utils.RedisClient
	es       utils.ElasticsearchClient
	reader   MessageReader
	logger   *log.Logger
	shutdown chan struct{}
	done     chan struct{}
}

func NewClientConsumer(cache utils.RedisClient, es utils.ElasticsearchClient, logger *log.Logger) *ClientConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{utils.KafkaBroker()},
		Topic:   utils.ClientEventsTopic,
		GroupID: "vertex-crm-projection",
		MaxWait: 10 * time.Second,
	})
	return NewClientConsumerWithReader(reader, cache, es, logger)
}

func NewClientConsumerWithReader(reader MessageReader, cache utils.RedisClient, es utils.ElasticsearchClient, logger *log.Logger) *ClientConsumer {
	return &ClientConsumer{
		cache:    cache,
		es:       es,
		reader:   reader,
		logger:   logger,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (c *ClientConsumer) Start(ctx context.Context) {
	c.logger.Println("Starting Kafka consumer...")

	go func() {
		defer close(c.done)
		for {
			select {
			case <-c.shutdown:
				return
			case <-ctx.Done():
				return
			default:
				c.processMessage(ctx)
			}
		}
	}()
}

// Stop ends the read loop and closes the reader.
func (c *ClientConsumer) Stop() {
	close(c.shutdown)
	if err := c.reader.Close(); err != nil {
		c.logger.Printf("Error closing Kafka reader: %v", err)
	}
	<-c.done
}

func (c *ClientConsumer) processMessage(ctx context.Context) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
			return
		}
		c.logger.Printf("Kafka read error: %v (will retry)", err)
		select {
		case <-time.After(5 * time.Second):
		case <-c.shutdown:
		case <-ctx.Done():
		}
		return
	}

	var event models.ClientEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Printf("Failed to unmarshal Kafka message: %v", err)
		c.commit(ctx, msg)
		return
	}

	if err := c.Handle(ctx, event); err != nil {
		c.logger.Printf("Failed to process %s event for client %s: %v", event.Event, event.Data.ID, err)
		utils.CaptureError(err, map[string]interface{}{"event": event.Event, "clientId": event.Data.ID})
		return
	}

	// Offsets are committed only after the projection succeeded.
	c.commit(ctx, msg)
}

func (c *ClientConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Printf("Failed to commit Kafka offset: %v", err)
	}
}

// Handle applies one event to the projections.
func (c *ClientConsumer) Handle(ctx context.Context, event models.ClientEvent) error {
	if event.Data.ID == "" {
		return fmt.Errorf("%s event without client id", event.Event)
	}

	switch event.Event {
	case models.EventClientCreated, models.EventClientUpdated:
		return c.handleClientUpserted(ctx, event.Data)
	case models.EventClientDeleted:
		return c.handleClientDeleted(ctx, event.Data.ID)
	default:
		c.logger.Printf("Unknown event type: %s", event.Event)
		return nil
	}
}

func (c *ClientConsumer) handleClientUpserted(ctx context.Context, client models.Client) error {
	clientJSON, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("failed to marshal client to JSON: %w", err)
	}

	if err := c.cache.SetToCache(ctx, "client:"+client.ID, string(clientJSON), clientCacheTTL); err != nil {
		return fmt.Errorf("failed to cache client: %w", err)
	}

	if c.es != nil {
		if err := c.es.IndexClient(ctx, client); err != nil {
			return fmt.Errorf("failed to index client in Elasticsearch: %w", err)
		}
	}

	c.logger.Printf("Projected client %s", client.ID)
	return nil
}

func (c *ClientConsumer) handleClientDeleted(ctx context.Context, clientID string) error {
	if err := c.cache.DeleteFromCache(ctx, "client:"+clientID); err != nil {
		return fmt.Errorf("failed to delete client from cache: %w", err)
	}

	if c.es != nil {
		if err := c.es.DeleteClient(ctx, clientID); err != nil {
			return fmt.Errorf("failed to delete client from Elasticsearch: %w", err)
		}
	}

	c.logger.Printf("Removed client %s from projections", clientID)
	return nil
}
