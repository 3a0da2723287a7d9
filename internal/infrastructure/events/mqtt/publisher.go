// Package mqtt publica los eventos del libro en un broker MQTT (pantallas de bodega, tableros).
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/realtime"
)

var _ realtime.Sink = (*Publisher)(nil)

// Config conexión al broker.
type Config struct {
	Broker   string // host:port
	Topic    string // prefijo; el tipo de evento se agrega como último nivel
	ClientID string // vacío = generado
}

// Publisher emisor MQTT con reconexión automática.
type Publisher struct {
	client paho.Client
	topic  string
}

// Connect establece la conexión con el broker.
func Connect(cfg Config, log zerolog.Logger) (*Publisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "inventario-scanner-" + uuid.NewString()[:8]
	}
	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.OnConnect = func(paho.Client) {
		log.Info().Str("broker", broker).Str("client_id", clientID).Msg("conexión MQTT establecida")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warn().Err(err).Str("broker", broker).Msg("conexión MQTT perdida, reintentando")
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("mqtt: timeout de conexión a %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: conectar: %w", err)
	}
	return &Publisher{client: client, topic: strings.TrimSuffix(cfg.Topic, "/")}, nil
}

// Name identifica el sumidero en los logs.
func (p *Publisher) Name() string { return "mqtt" }

// Send publica el evento en <topic>/<tipo> con QoS 1.
func (p *Publisher) Send(ctx context.Context, evt event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("mqtt: serializar evento: %w", err)
	}
	token := p.client.Publish(p.topic+"/"+evt.Type, 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return fmt.Errorf("mqtt: publicar %s: %w", evt.Type, ctx.Err())
	}
}

// Close desconecta del broker.
func (p *Publisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
