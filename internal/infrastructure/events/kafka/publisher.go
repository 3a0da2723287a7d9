// Package kafka publica los eventos del libro en un tópico de Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Inventario-scanner/internal/domain/event"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/realtime"
)

var _ realtime.Sink = (*Publisher)(nil)

// Publisher escribe cada evento como JSON. La clave del mensaje es el código de barras,
// así el balanceo por hash mantiene los eventos de un código en la misma partición.
type Publisher struct {
	writer *kafka.Writer
}

// batchTimeout cota de espera por lote. Send escribe un mensaje por llamada, así que con
// el valor por defecto de kafka-go (1 s) cada evento esperaría el lote completo.
const batchTimeout = 10 * time.Millisecond

// NewPublisher construye el publicador para los brokers y tópico indicados.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           batchTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

// Name identifica el sumidero en los logs.
func (p *Publisher) Name() string { return "kafka" }

// Send publica el evento.
func (p *Publisher) Send(ctx context.Context, evt event.Event) error {
	msg, err := message(evt)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar %s: %w", evt.Type, err)
	}
	return nil
}

func message(evt event.Event) (kafka.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: serializar evento: %w", err)
	}
	return kafka.Message{
		Key:   []byte(evt.Key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}, nil
}

// Close libera el writer.
func (p *Publisher) Close() error { return p.writer.Close() }
