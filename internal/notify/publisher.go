package notify

import (
	"context"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/internal/queue"
)

// QueuePublisher enqueues composed notifications on the dispatch stream.
// The foreground command returns as soon as the envelope is appended.
type QueuePublisher struct {
	queue *queue.Queue
}

func NewQueuePublisher(q *queue.Queue) *QueuePublisher {
	return &QueuePublisher{queue: q}
}

func (p *QueuePublisher) Publish(ctx context.Context, n *model.Notification) error {
	_, err := p.queue.PublishJSON(ctx, n, map[string]string{
		"kind":       string(n.Kind),
		"receipt_no": n.ReceiptNo,
	})
	return err
}
