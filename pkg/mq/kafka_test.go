package mq

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completedEvent struct {
	ID    string `json:"comparison_id"`
	Paths int    `json:"n_paths"`
}

// fakeReader 依次返回 msgs，耗尽后阻塞到 ctx 结束
type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	fetchErr  error
	commitErr error
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.fetchErr != nil {
		r.mu.Unlock()
		return kafka.Message{}, r.fetchErr
	}
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commitErr != nil {
		return r.commitErr
	}
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func jsonMessage(t *testing.T, offset int64, v any) kafka.Message {
	t.Helper()
	m, err := encodeMessage("rentvsbuy.comparison.completed", "c1", v)
	require.NoError(t, err)
	m.Offset = offset
	return m
}

func TestEncodeMessage(t *testing.T) {
	m, err := encodeMessage("topic", "k", completedEvent{ID: "c1", Paths: 100})
	require.NoError(t, err)
	assert.Equal(t, "k", string(m.Key))
	assert.JSONEq(t, `{"comparison_id":"c1","n_paths":100}`, string(m.Value))
	require.Len(t, m.Headers, 1)
	assert.Equal(t, HeaderContentType, m.Headers[0].Key)

	_, err = encodeMessage("topic", "k", make(chan int))
	assert.Error(t, err)
}

func TestConsume_TypedDecodeSkipsMalformed(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{
		jsonMessage(t, 1, completedEvent{ID: "a", Paths: 10}),
		{Offset: 2, Value: []byte("{")},
		{Offset: 3, Value: []byte(`{}`), Headers: []kafka.Header{{Key: HeaderContentType, Value: []byte("text/plain")}}},
		jsonMessage(t, 4, completedEvent{ID: "b", Paths: 20}),
	}}
	consumer := &KafkaConsumer{reader: reader, topic: "rentvsbuy.comparison.completed"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []completedEvent
	err := consumer.Consume(ctx, JSONHandler(func(_ context.Context, msg *Message, e completedEvent) error {
		assert.Equal(t, "c1", msg.Key)
		got = append(got, e)
		if len(got) == 2 {
			cancel()
		}
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []completedEvent{{ID: "a", Paths: 10}, {ID: "b", Paths: 20}}, got)
	assert.Equal(t, []int64{1, 2, 3, 4}, reader.committed)
}

func TestConsume_HandlerErrorStopsWithoutCommit(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{jsonMessage(t, 7, completedEvent{ID: "a"})}}
	consumer := &KafkaConsumer{reader: reader}
	boom := errors.New("boom")

	err := consumer.Consume(context.Background(), func(context.Context, *Message) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "offset 7")
	assert.Empty(t, reader.committed)
}

func TestConsume_Errors(t *testing.T) {
	broken := errors.New("broker gone")

	err := (&KafkaConsumer{reader: &fakeReader{fetchErr: broken}}).Consume(context.Background(), func(context.Context, *Message) error { return nil })
	assert.ErrorIs(t, err, broken)

	reader := &fakeReader{msgs: []kafka.Message{jsonMessage(t, 1, completedEvent{})}, commitErr: broken}
	err = (&KafkaConsumer{reader: reader}).Consume(context.Background(), func(context.Context, *Message) error { return nil })
	assert.ErrorIs(t, err, broken)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = (&KafkaConsumer{reader: &fakeReader{}}).Consume(ctx, func(context.Context, *Message) error { return nil })
	assert.NoError(t, err)
}

func TestDecode(t *testing.T) {
	m := fromKafka(kafka.Message{Topic: "t", Value: []byte(`{"comparison_id":"c1","n_paths":100}`)})
	assert.Nil(t, m.Headers)

	e, err := Decode[completedEvent](m)
	require.NoError(t, err)
	assert.Equal(t, completedEvent{ID: "c1", Paths: 100}, e)

	_, err = Decode[completedEvent](&Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestNewProducer_Config(t *testing.T) {
	p := NewProducer(KafkaConfig{Brokers: []string{"localhost:9092"}, MaxRetries: 5, RetryBackoff: 50})
	defer p.Close()

	assert.Equal(t, 5, p.writer.MaxAttempts)
	assert.Equal(t, "localhost:9092", p.writer.Addr.String())
}
