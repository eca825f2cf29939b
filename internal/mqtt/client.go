package mqtt

import (
	"fmt"
	"time"

	"scale-monitor-backend/internal/config"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// MessageHandler processes one message. A returned error is logged; the
// message is not redelivered.
type MessageHandler func(topic string, payload []byte) error

type Client struct {
	client paho.Client
	log    *zap.Logger
}

// Connect dials the broker with auto-reconnect enabled.
func Connect(cfg config.MQTTConfig, log *zap.Logger) (*Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn("mqtt connection lost", zap.Error(err))
	})

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", cfg.Broker, token.Error())
	}

	log.Info("mqtt connected", zap.String("broker", cfg.Broker), zap.String("client_id", cfg.ClientID))
	return &Client{client: client, log: log}, nil
}

func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ paho.Client, msg paho.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.log.Warn("mqtt message rejected", zap.String("topic", msg.Topic()), zap.Error(err))
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, token.Error())
	}
	c.log.Info("mqtt subscribed", zap.String("topic", topic))
	return nil
}

// Close disconnects, giving in-flight work up to 250ms.
func (c *Client) Close() {
	c.client.Disconnect(250)
}
