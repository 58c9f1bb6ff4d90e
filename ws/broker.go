package ws

import (
	"context"
	"encoding/json"

	"jobnest_backend/internal/logger"
)

// Envelope - событие для комнаты в том виде, в каком оно ходит через брокер
type Envelope struct {
	Room  string          `json:"room"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Broker доставляет события в хабы всех инстансов
type Broker interface {
	Publish(ctx context.Context, env Envelope) error
	// Run принимает события от других инстансов до отмены ctx
	Run(ctx context.Context) error
	Close() error
}

// LocalBroker - один инстанс, доставка сразу в свой хаб
type LocalBroker struct {
	hub *Hub
}

func NewLocalBroker(hub *Hub) *LocalBroker {
	return &LocalBroker{hub: hub}
}

func (b *LocalBroker) Publish(_ context.Context, env Envelope) error {
	deliverEnvelope(b.hub, env)
	return nil
}

func (b *LocalBroker) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (b *LocalBroker) Close() error { return nil }

func deliverEnvelope(hub *Hub, env Envelope) int {
	frame, err := encodeFrame(env.Event, env.Data)
	if err != nil {
		logger.PushLog(env.Event, env.Room, 0, err)
		return 0
	}
	return hub.deliver(env.Room, env.Event, frame)
}

// Emitter - точка входа для сервисов: сериализует payload и отдает брокеру.
// Ошибки только логируются, доставка не влияет на HTTP-ответ
type Emitter struct {
	broker Broker
}

func NewEmitter(broker Broker) *Emitter {
	return &Emitter{broker: broker}
}

func (e *Emitter) Emit(ctx context.Context, room, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.PushLog(event, room, 0, err)
		return
	}
	if err := e.broker.Publish(ctx, Envelope{Room: room, Event: event, Data: data}); err != nil {
		logger.PushLog(event, room, 0, err)
	}
}
