package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/internal/queue"
	"github.com/memocorner/repair-desk/pkg/logger"
)

// Processor consumes the notification stream and feeds the dispatcher.
// Dispatch failures are acked after they are recorded; only an audit write
// failure leaves the message pending for reclaim.
type Processor struct {
	queue      *queue.Queue
	dispatcher *Dispatcher
}

func NewProcessor(q *queue.Queue, d *Dispatcher) *Processor {
	return &Processor{queue: q, dispatcher: d}
}

func (p *Processor) Start() error {
	return p.queue.Consume(p.handle)
}

func (p *Processor) handle(ctx context.Context, msg *queue.Message) error {
	var n model.Notification
	if err := json.Unmarshal(msg.Data, &n); err != nil {
		// Malformed envelope will never parse; ack it away.
		logger.Error("dropping malformed notification", "message_id", msg.ID, "error", err)
		return nil
	}

	logger.Info("dispatching notification",
		"message_id", msg.ID, "ticket_id", n.TicketID, "kind", n.Kind)
	return p.dispatcher.Dispatch(ctx, &n)
}

// Stop drains the consumer and waits for in-flight assist tasks.
func (p *Processor) Stop(timeout time.Duration) error {
	if err := p.queue.Stop(timeout); err != nil {
		return err
	}
	p.dispatcher.Wait()
	return nil
}
