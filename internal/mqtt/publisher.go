// Package mqtt optionally publishes persisted spots to an MQTT broker. It
// never sits on the decode critical path: publishing is fire-and-forget,
// best effort.
package mqtt

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Spot is one decoded, persisted message published to the broker.
type Spot struct {
	Timestamp int64   `json:"timestamp"`
	Band      string  `json:"band"`
	Frequency float64 `json:"frequency"`
	Mode      string  `json:"mode"`
	SNR       float64 `json:"snr"`
	Text      string  `json:"text"`
}

// Publisher publishes Spots to a configured broker under a fixed topic.
type Publisher struct {
	client paho.Client
	topic  string
}

// generateClientID builds a random per-process MQTT client id so multiple
// receiver instances never collide on the broker.
func generateClientID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "hf-decoder_" + hex.EncodeToString(b)
}

// New connects to broker (e.g. "tcp://localhost:1883") and returns a
// Publisher ready to publish Spots under topic. Returns an error if the
// initial connection fails; callers should treat MQTT as optional and log
// rather than fail startup on error.
func New(broker, topic string) (*Publisher, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(generateClientID())
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", broker, token.Error())
	}
	return &Publisher{client: client, topic: topic}, nil
}

// Publish serializes spot as JSON and publishes it at QoS 0. Failures are
// logged, not returned, since a dropped spot publish must never affect the
// decode pipeline.
func (p *Publisher) Publish(spot Spot) {
	payload, err := json.Marshal(spot)
	if err != nil {
		log.Printf("[mqtt] marshal spot: %v", err)
		return
	}
	token := p.client.Publish(p.topic, 0, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("[mqtt] publish spot: %v", err)
		}
	}()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
