package consumer

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex-crm/models"
	"vertex-crm/utils"
)

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[string]models.Client
	deleted []string
}

func (f *fakeIndex) IndexClient(ctx context.Context, client models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexed == nil {
		f.indexed = map[string]models.Client{}
	}
	f.indexed[client.ID] = client
	return nil
}

func (f *fakeIndex) SearchClients(ctx context.Context, term string) ([]models.Client, error) {
	return nil, nil
}

func (f *fakeIndex) DeleteClient(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Close() error { return nil }

// fakeReader hands out queued messages, then blocks until closed.
type fakeReader struct {
	messages  chan kafka.Message
	committed chan kafka.Message
	closed    chan struct{}
	once      sync.Once
}

func newFakeReader(messages ...kafka.Message) *fakeReader {
	reader := &fakeReader{
		messages:  make(chan kafka.Message, len(messages)),
		committed: make(chan kafka.Message, len(messages)),
		closed:    make(chan struct{}),
	}
	for _, msg := range messages {
		reader.messages <- msg
	}
	return reader
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.messages:
		return msg, nil
	case <-r.closed:
		return kafka.Message{}, io.EOF
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		r.committed <- msg
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}

func newTestCache(t *testing.T) utils.RedisClient {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := utils.NewRedisClientWithOptions(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	return cache
}

func eventMessage(t *testing.T, event models.ClientEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestHandleProjectsAndRemoves(t *testing.T) {
	cache := newTestCache(t)
	index := &fakeIndex{}
	consumer := NewClientConsumerWithReader(newFakeReader(), cache, index, log.New(io.Discard, "", 0))
	ctx := context.Background()

	client := models.Client{ID: "abc", ClientFields: models.ClientFields{Name: "Acme"}}
	require.NoError(t, consumer.Handle(ctx, models.ClientEvent{Event: models.EventClientCreated, Data: client}))

	cached, err := cache.GetFromCache(ctx, "client:abc")
	require.NoError(t, err)
	assert.Contains(t, cached, `"Acme"`)
	assert.Equal(t, "Acme", index.indexed["abc"].Name)

	require.NoError(t, consumer.Handle(ctx, models.ClientEvent{Event: models.EventClientDeleted, Data: models.Client{ID: "abc"}}))
	_, err = cache.GetFromCache(ctx, "client:abc")
	assert.ErrorIs(t, err, redis.Nil)
	assert.Equal(t, []string{"abc"}, index.deleted)
}

func TestHandleRejectsMissingID(t *testing.T) {
	consumer := NewClientConsumerWithReader(newFakeReader(), newTestCache(t), nil, log.New(io.Discard, "", 0))
	assert.Error(t, consumer.Handle(context.Background(), models.ClientEvent{Event: models.EventClientUpdated}))
}

func TestStartCommitsProcessedMessages(t *testing.T) {
	cache := newTestCache(t)
	reader := newFakeReader(
		eventMessage(t, models.ClientEvent{Event: models.EventClientUpdated, Data: models.Client{ID: "1", ClientFields: models.ClientFields{Name: "One"}}}),
		kafka.Message{Value: []byte("not json")},
	)
	consumer := NewClientConsumerWithReader(reader, cache, nil, log.New(io.Discard, "", 0))

	consumer.Start(context.Background())
	for i := 0; i < 2; i++ {
		select {
		case <-reader.committed:
		case <-time.After(2 * time.Second):
			t.Fatal("message was not committed")
		}
	}
	consumer.Stop()

	cached, err := cache.GetFromCache(context.Background(), "client:1")
	require.NoError(t, err)
	assert.Contains(t, cached, `"One"`)
}
