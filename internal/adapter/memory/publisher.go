package memory

import (
	"context"
	"sync"

	"flavorfi/internal/interfaces"
)

// Publisher is an in-memory EventPublisher that records everything it is
// asked to publish. Tests use it to assert on the events feed.
type Publisher struct {
	mu            sync.Mutex
	orderCreated  []interfaces.OrderCreatedEvent
	statusChanged []interfaces.StatusChangedEvent
	failNext      error
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) PublishOrderCreated(_ context.Context, event interfaces.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return err
	}
	p.orderCreated = append(p.orderCreated, event)
	return nil
}

func (p *Publisher) PublishStatusChanged(_ context.Context, event interfaces.StatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return err
	}
	p.statusChanged = append(p.statusChanged, event)
	return nil
}

// FailNext makes the next publish call return err.
func (p *Publisher) FailNext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = err
}

func (p *Publisher) OrderCreatedEvents() []interfaces.OrderCreatedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interfaces.OrderCreatedEvent(nil), p.orderCreated...)
}

func (p *Publisher) StatusChangedEvents() []interfaces.StatusChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interfaces.StatusChangedEvent(nil), p.statusChanged...)
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
