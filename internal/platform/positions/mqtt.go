package positions

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// MQTTSource subscribes to per-ambulance position topics on an MQTT broker.
// Topic layout: <prefix>/<ambulance_id>/position.
type MQTTSource struct {
	brokerURL   string
	topicPrefix string
	logger      zerolog.Logger
}

func NewMQTTSource(brokerURL, topicPrefix string, logger zerolog.Logger) *MQTTSource {
	return &MQTTSource{brokerURL: brokerURL, topicPrefix: topicPrefix, logger: logger}
}

// Watch connects a dedicated client and streams fixes for the ambulance until
// ctx is cancelled. Malformed payloads are logged and skipped; when the
// channel is full the incoming fix is dropped, since the next fix supersedes
// it anyway.
func (s *MQTTSource) Watch(ctx context.Context, ambulanceID string) (<-chan Fix, error) {
	clientID := fmt.Sprintf("dispatch-%s-%d", ambulanceID, time.Now().UnixNano())
	opts := mqtt.NewClientOptions().
		AddBroker(s.brokerURL).
		SetClientID(clientID).
		SetOrderMatters(false).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", s.brokerURL, token.Error())
	}

	topic := fmt.Sprintf("%s/%s/position", s.topicPrefix, ambulanceID)
	ch := make(chan Fix, 16)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		fix, err := ParseFix(msg.Payload())
		if err != nil {
			s.logger.Warn().Err(err).Str("topic", msg.Topic()).Msg("dropping bad position payload")
			return
		}
		select {
		case ch <- fix:
		default:
			s.logger.Debug().Str("ambulance_id", ambulanceID).Msg("position channel full, fix dropped")
		}
	}

	if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	s.logger.Info().Str("topic", topic).Msg("watching position stream")

	go func() {
		<-ctx.Done()
		if token := client.Unsubscribe(topic); token.Wait() && token.Error() != nil {
			s.logger.Warn().Err(token.Error()).Str("topic", topic).Msg("unsubscribe failed")
		}
		client.Disconnect(250)
		close(ch)
	}()

	return ch, nil
}
