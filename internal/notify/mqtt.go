// Package notify pushes allocation run lifecycle events to an MQTT broker so
// office dashboards can follow runs without polling the API.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// RunEvent is the payload published on allocation/runs/<id>.
type RunEvent struct {
	RunID            string  `json:"run_id"`
	Status           string  `json:"status"`
	Progress         float64 `json:"progress"`
	BookingsPlaced   int     `json:"bookings_placed"`
	AllotmentsFilled int     `json:"allotments_filled"`
	Timestamp        string  `json:"timestamp"`
}

type Publisher struct {
	client mqtt.Client
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// NewPublisher connects to the broker. An empty brokerURL disables
// notifications; the returned nil Publisher is safe to publish on.
func NewPublisher(brokerURL, clientID string) (*Publisher, error) {
	if brokerURL == "" {
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{client: client}, nil
}

// PublishRunEvent sends a run lifecycle event. Publish failures are logged,
// never fatal: the run does not depend on the broker.
func (p *Publisher) PublishRunEvent(event RunEvent) {
	if p == nil || p.client == nil {
		return
	}
	event.Timestamp = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal run event")
		return
	}

	topic := fmt.Sprintf("allocation/runs/%s", event.RunID)
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish run event")
	}
}

func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}
