// Package mqtt broadcasts location changes to an MQTT broker so paired
// displays can follow the city a device has chosen.
package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/location"
)

const (
	publishQoS     = 1
	publishTimeout = 5 * time.Second
	disconnectMs   = 250
)

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("Connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Connect dials brokerURL and returns a client with automatic reconnect.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Str("client_id", clientID).Msg("MQTT client initialized")
	return client, nil
}

// LocationTopic is the topic a device's location changes are published on.
func LocationTopic(deviceID string) string {
	return fmt.Sprintf("shalat/%s/location", deviceID)
}

// Publisher publishes JSON messages on a shared client.
type Publisher struct {
	client    mqtt.Client
	closeOnce sync.Once
}

func NewPublisher(client mqtt.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, publishQoS, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// NotifyLocation is a location.Listener. Failures are logged, never returned,
// so a broker outage cannot block a city change.
func (p *Publisher) NotifyLocation(change location.Change) {
	payload, err := json.Marshal(change)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode location change")
		return
	}

	topic := LocationTopic(change.DeviceID)
	if err := p.Publish(topic, payload); err != nil {
		log.Error().Err(err).Str("device_id", change.DeviceID).Msg("failed to publish location change")
		return
	}
	log.Debug().Str("topic", topic).Str("city", change.City.Name).Msg("location change published")
}

func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.client.IsConnected() {
			p.client.Disconnect(disconnectMs)
			log.Info().Msg("MQTT client disconnected")
		}
	})
}
