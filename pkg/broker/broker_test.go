package broker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bizadmin/pkg/broker"
)

func TestKafkaPublish(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	p := mocks.NewSyncProducer(t, cfg)
	p.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"event":"food.created"}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})

	k := broker.NewKafkaWithProducer(p, "bizadmin.events")
	require.NoError(t, k.Publish(context.Background(), "food.created", []byte(`{"event":"food.created"}`)))
	require.NoError(t, k.Close())
}

func TestKafkaPublishError(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	p := mocks.NewSyncProducer(t, cfg)
	p.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := broker.NewKafkaWithProducer(p, "bizadmin.events")
	err := k.Publish(context.Background(), "k", []byte("v"))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, k.Close())
}

func TestConnectWithoutBrokersKeepsNoop(t *testing.T) {
	require.NoError(t, broker.Connect(nil, "x"))
	assert.IsType(t, broker.Noop{}, broker.Default)
}
