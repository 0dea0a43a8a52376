package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/memocorner/repair-desk/pkg/logger"
	"github.com/memocorner/repair-desk/pkg/prom"
)

// ActivityRepository records dispatch outcomes; the audit trail is the only
// place a fire-and-forget send surfaces.
type ActivityRepository interface {
	Append(ctx context.Context, a *model.ActivityLogEntry) (*model.ActivityLogEntry, error)
}

// AssistConfig bounds the background assisted-send task. With FocusAttempts
// polls of PollInterval each plus the fixed delays, the task terminates in
// at most InitialDelay + FocusAttempts*PollInterval + SettleDelay plus the
// paste call, regardless of window state.
type AssistConfig struct {
	Enabled       bool
	UseClipboard  bool
	PressConfirm  bool
	InitialDelay  time.Duration
	FocusAttempts int
	PollInterval  time.Duration
	SettleDelay   time.Duration
}

// Dispatcher performs best-effort delivery of composed messages through the
// external desktop messaging application. The foreground contract is only
// step one (open the deep link, fall back to the web link); the assisted
// send runs as an independent background task per dispatch and reports
// through the activity log alone.
type Dispatcher struct {
	opener    ChannelOpener
	clipboard Clipboard
	driver    AssistDriver
	activity  ActivityRepository
	assist    AssistConfig

	// assistMu serializes the whole clipboard-stage-to-paste window; the
	// clipboard is one system-wide resource and interleaving two sends would
	// paste one ticket's text into another's chat.
	assistMu sync.Mutex
	wg       sync.WaitGroup
}

func NewDispatcher(opener ChannelOpener, clipboard Clipboard, driver AssistDriver, activity ActivityRepository, assist AssistConfig) *Dispatcher {
	return &Dispatcher{
		opener:    opener,
		clipboard: clipboard,
		driver:    driver,
		activity:  activity,
		assist:    assist,
	}
}

// Dispatch opens the messaging channel for one notification. A failure of
// both the deep link and the web fallback is a dispatch failure: logged,
// recorded, never returned. The returned error is reserved for the audit
// write itself failing, which callers may retry.
func (d *Dispatcher) Dispatch(ctx context.Context, n *model.Notification) error {
	digits := NormalizePhone(n.Phone)
	if digits == "" {
		return d.recordFailure(ctx, n, fmt.Errorf("no phone digits in %q", n.Phone))
	}

	if err := d.opener.OpenDeepLink(DeepLink(digits, n.Text)); err != nil {
		logger.Warn("deep link open failed, trying web fallback",
			"ticket_id", n.TicketID, "kind", n.Kind, "error", err)
		if err := d.opener.OpenWebLink(WebLink(digits, n.Text)); err != nil {
			return d.recordFailure(ctx, n, err)
		}
	}

	prom.IncDispatchOutcome(string(n.Kind), "opened")
	if _, err := d.activity.Append(ctx, &model.ActivityLogEntry{
		TicketID: n.TicketID,
		Kind:     model.ActivityDispatch,
		Info:     fmt.Sprintf("%s message channel opened for receipt %s", n.Kind, n.ReceiptNo),
	}); err != nil {
		return err
	}

	if d.assist.Enabled {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.runAssist(n)
		}()
	}
	return nil
}

func (d *Dispatcher) recordFailure(ctx context.Context, n *model.Notification, cause error) error {
	prom.IncDispatchOutcome(string(n.Kind), "failed")
	logger.Error("dispatch failed", "ticket_id", n.TicketID, "kind", n.Kind, "error", cause)

	_, err := d.activity.Append(ctx, &model.ActivityLogEntry{
		TicketID: n.TicketID,
		Kind:     model.ActivityDispatchFailed,
		Info:     fmt.Sprintf("%s message for receipt %s: %v", n.Kind, n.ReceiptNo, cause),
	})
	return err
}

// runAssist stages the text, waits for the application window and injects
// the send keystrokes. The focus loop is bounded; when no window shows up
// the paste runs once unconditionally as a last resort, so the task always
// terminates.
func (d *Dispatcher) runAssist(n *model.Notification) {
	start := time.Now()

	d.assistMu.Lock()
	defer d.assistMu.Unlock()

	if d.assist.UseClipboard {
		if err := d.clipboard.Set(n.Text); err != nil {
			logger.Warn("clipboard stage failed", "ticket_id", n.TicketID, "error", err)
		}
	}

	time.Sleep(d.assist.InitialDelay)

	focused := false
	for i := 0; i < d.assist.FocusAttempts; i++ {
		if d.driver.FocusWindow() {
			focused = true
			break
		}
		time.Sleep(d.assist.PollInterval)
	}

	outcome := "assist_blind"
	if focused {
		outcome = "assist_focused"
		time.Sleep(d.assist.SettleDelay)
	}

	if err := d.driver.PasteAndConfirm(d.assist.PressConfirm); err != nil {
		logger.Warn("assist keystrokes failed", "ticket_id", n.TicketID, "error", err)
		outcome = "assist_failed"
	}

	prom.IncDispatchOutcome(string(n.Kind), outcome)
	prom.AddDispatchAssistDuration(time.Since(start).Seconds(), string(n.Kind))
}

// Wait blocks until all scheduled assist tasks have finished. Used during
// shutdown; every task is bounded so Wait returns in bounded time.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
