package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/Ferpoks/telegram-cv-bot/internal/shared/telemetry"
)

const (
	pollTimeoutSeconds = 50
	chatQueueDepth     = 16
)

// Handler processes one inbound update.
type Handler func(ctx context.Context, update Update)

// Poller long-polls getUpdates and dispatches each update to its
// conversation's worker. Updates for one chat are handled strictly in order;
// distinct chats run concurrently.
type Poller struct {
	client *Client

	mu      sync.Mutex
	queues  map[int64]chan Update
	workers sync.WaitGroup
}

func NewPoller(client *Client) *Poller {
	return &Poller{
		client: client,
		queues: make(map[int64]chan Update),
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context, handler Handler) {
	var offset int64
	for {
		if ctx.Err() != nil {
			break
		}
		updates, err := p.client.GetUpdates(ctx, offset, pollTimeoutSeconds)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			telemetry.Warn("getUpdates failed", map[string]any{"err": err.Error()})
			time.Sleep(3 * time.Second)
			continue
		}
		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			p.dispatch(ctx, update, handler)
		}
	}
	p.workers.Wait()
}

func (p *Poller) dispatch(ctx context.Context, update Update, handler Handler) {
	chatID := update.ChatID()
	if chatID == 0 {
		return
	}
	p.mu.Lock()
	queue, ok := p.queues[chatID]
	if !ok {
		queue = make(chan Update, chatQueueDepth)
		p.queues[chatID] = queue
		p.workers.Add(1)
		go func() {
			defer p.workers.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case u := <-queue:
					handler(ctx, u)
				}
			}
		}()
	}
	p.mu.Unlock()

	select {
	case queue <- update:
	default:
		telemetry.Warn("chat queue full, dropping update", map[string]any{"chat_id": chatID})
	}
}
