package subscriber

import (
	"context"
	"fmt"
	"sync"

	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

type memoryMessage struct {
	subject string
	data    []byte
}

type memorySubscription struct {
	handler MessageHandler
	ctx     context.Context
	cancel  context.CancelFunc
	ch      chan memoryMessage
}

// memoryBroker routes in-process publishes to memory subscriptions
type memoryBroker struct {
	subscribers map[string][]*memorySubscription
	mu          sync.RWMutex
}

var broker = &memoryBroker{subscribers: make(map[string][]*memorySubscription)}

func (b *memoryBroker) add(subject string, sub *memorySubscription) {
	b.mu.Lock()
	b.subscribers[subject] = append(b.subscribers[subject], sub)
	b.mu.Unlock()
}

func (b *memoryBroker) remove(subject string, sub *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[subject]
	for i, s := range subs {
		if s == sub {
			b.subscribers[subject] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subscribers[subject]) == 0 {
		delete(b.subscribers, subject)
	}
}

// PublishToMemory delivers data to every memory subscription on subject and
// returns how many accepted it. Full subscriptions drop the message.
func PublishToMemory(subject string, data []byte) int {
	broker.mu.RLock()
	subs := append([]*memorySubscription(nil), broker.subscribers[subject]...)
	broker.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		msg := memoryMessage{subject: subject, data: append([]byte(nil), data...)}
		select {
		case sub.ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// MemorySubscriber implements Subscriber for in-process delivery
type MemorySubscriber struct {
	logger        *logging.Logger
	subscriptions map[string]*memorySubscription
	mu            sync.Mutex
}

// NewMemorySubscriber creates a new in-memory subscriber
func NewMemorySubscriber(cfg Config) *MemorySubscriber {
	cfg = cfg.withDefaults()
	return &MemorySubscriber{
		logger:        cfg.Logger.With("component", "subscriber.memory"),
		subscriptions: make(map[string]*memorySubscription),
	}
}

// Subscribe subscribes to a subject with the given handler
func (s *MemorySubscriber) Subscribe(ctx context.Context, subject string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &memorySubscription{
		handler: handler,
		ctx:     subCtx,
		cancel:  cancel,
		ch:      make(chan memoryMessage, utils.MemoryChannelSize),
	}
	s.subscriptions[subject] = sub
	broker.add(subject, sub)

	go s.consume(sub)

	s.logger.Debug("Subscribed to in-memory subject", "subject", subject)
	return nil
}

func (s *MemorySubscriber) consume(sub *memorySubscription) {
	for {
		select {
		case <-sub.ctx.Done():
			return
		case msg := <-sub.ch:
			if err := sub.handler(sub.ctx, msg.subject, msg.data); err != nil {
				s.logger.Error("Failed to handle message", "subject", msg.subject, "error", err)
			}
		}
	}
}

// Unsubscribe unsubscribes from a subject
func (s *MemorySubscriber) Unsubscribe(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	sub.cancel()
	broker.remove(subject, sub)
	delete(s.subscriptions, subject)
	return nil
}

// Close closes all subscriptions
func (s *MemorySubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for subject, sub := range s.subscriptions {
		sub.cancel()
		broker.remove(subject, sub)
	}
	s.subscriptions = make(map[string]*memorySubscription)
	return nil
}
