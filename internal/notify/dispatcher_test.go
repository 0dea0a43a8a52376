package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/memocorner/repair-desk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	mu        sync.Mutex
	deepErr   error
	webErr    error
	deepLinks []string
	webLinks  []string
}

func (f *fakeOpener) OpenDeepLink(link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deepLinks = append(f.deepLinks, link)
	return f.deepErr
}

func (f *fakeOpener) OpenWebLink(link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webLinks = append(f.webLinks, link)
	return f.webErr
}

type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeClipboard) Set(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.err
}

// fakeDriver focuses after focusAfter attempts; never when negative.
type fakeDriver struct {
	mu         sync.Mutex
	focusAfter int
	focusCalls int
	pastes     []bool
}

func (f *fakeDriver) FocusWindow() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focusCalls++
	return f.focusAfter >= 0 && f.focusCalls > f.focusAfter
}

func (f *fakeDriver) PasteAndConfirm(confirm bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pastes = append(f.pastes, confirm)
	return nil
}

type fakeActivity struct {
	mu      sync.Mutex
	entries []*model.ActivityLogEntry
	err     error
}

func (f *fakeActivity) Append(ctx context.Context, a *model.ActivityLogEntry) (*model.ActivityLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.entries = append(f.entries, a)
	return a, nil
}

func (f *fakeActivity) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.entries {
		out = append(out, e.Kind)
	}
	return out
}

func fastAssist(enabled bool) AssistConfig {
	return AssistConfig{
		Enabled:       enabled,
		UseClipboard:  true,
		PressConfirm:  true,
		InitialDelay:  time.Millisecond,
		FocusAttempts: 3,
		PollInterval:  time.Millisecond,
		SettleDelay:   time.Millisecond,
	}
}

func notification() *model.Notification {
	return &model.Notification{
		ID:        "n1",
		TicketID:  7,
		ReceiptNo: "A0001",
		Kind:      model.NotifyReady,
		Phone:     "00966 50 123 4567",
		Text:      "Hello, your device is ready",
	}
}

func TestDispatcher_OpensDeepLink(t *testing.T) {
	opener := &fakeOpener{}
	activity := &fakeActivity{}
	d := NewDispatcher(opener, &fakeClipboard{}, &fakeDriver{focusAfter: -1}, activity, fastAssist(false))

	require.NoError(t, d.Dispatch(context.Background(), notification()))

	require.Len(t, opener.deepLinks, 1)
	assert.Contains(t, opener.deepLinks[0], "whatsapp://send?phone=966501234567")
	assert.Empty(t, opener.webLinks)
	assert.Equal(t, []string{model.ActivityDispatch}, activity.kinds())
}

func TestDispatcher_WebFallback(t *testing.T) {
	opener := &fakeOpener{deepErr: errors.New("not installed")}
	activity := &fakeActivity{}
	d := NewDispatcher(opener, &fakeClipboard{}, &fakeDriver{focusAfter: -1}, activity, fastAssist(false))

	require.NoError(t, d.Dispatch(context.Background(), notification()))

	require.Len(t, opener.webLinks, 1)
	assert.Contains(t, opener.webLinks[0], "https://wa.me/966501234567")
	assert.Equal(t, []string{model.ActivityDispatch}, activity.kinds())
}

func TestDispatcher_BothPathsFail(t *testing.T) {
	opener := &fakeOpener{deepErr: errors.New("not installed"), webErr: errors.New("no browser")}
	activity := &fakeActivity{}
	d := NewDispatcher(opener, &fakeClipboard{}, &fakeDriver{focusAfter: -1}, activity, fastAssist(true))

	// failure is recorded, not returned, and no assist task is scheduled
	require.NoError(t, d.Dispatch(context.Background(), notification()))
	d.Wait()

	assert.Equal(t, []string{model.ActivityDispatchFailed}, activity.kinds())
}

func TestDispatcher_NoPhoneDigits(t *testing.T) {
	opener := &fakeOpener{}
	activity := &fakeActivity{}
	d := NewDispatcher(opener, &fakeClipboard{}, &fakeDriver{focusAfter: -1}, activity, fastAssist(false))

	n := notification()
	n.Phone = "unknown"
	require.NoError(t, d.Dispatch(context.Background(), n))

	assert.Empty(t, opener.deepLinks)
	assert.Equal(t, []string{model.ActivityDispatchFailed}, activity.kinds())
}

func TestDispatcher_AuditWriteFailureSurfaces(t *testing.T) {
	activity := &fakeActivity{err: errors.New("db down")}
	d := NewDispatcher(&fakeOpener{}, &fakeClipboard{}, &fakeDriver{focusAfter: -1}, activity, fastAssist(false))

	assert.Error(t, d.Dispatch(context.Background(), notification()))
}

func TestDispatcher_AssistFocused(t *testing.T) {
	clipboard := &fakeClipboard{}
	driver := &fakeDriver{focusAfter: 1}
	d := NewDispatcher(&fakeOpener{}, clipboard, driver, &fakeActivity{}, fastAssist(true))

	n := notification()
	require.NoError(t, d.Dispatch(context.Background(), n))
	d.Wait()

	assert.Equal(t, []string{n.Text}, clipboard.texts)
	assert.Equal(t, 2, driver.focusCalls)
	assert.Equal(t, []bool{true}, driver.pastes)
}

func TestDispatcher_AssistLastResortPaste(t *testing.T) {
	driver := &fakeDriver{focusAfter: -1}
	d := NewDispatcher(&fakeOpener{}, &fakeClipboard{}, driver, &fakeActivity{}, fastAssist(true))

	require.NoError(t, d.Dispatch(context.Background(), notification()))
	d.Wait()

	// bounded attempts, then the unconditional paste
	assert.Equal(t, 3, driver.focusCalls)
	assert.Equal(t, []bool{true}, driver.pastes)
}

func TestDispatcher_AssistTerminatesInBoundedTime(t *testing.T) {
	cfg := fastAssist(true)
	cfg.InitialDelay = 5 * time.Millisecond
	cfg.FocusAttempts = 10
	cfg.PollInterval = 2 * time.Millisecond

	driver := &fakeDriver{focusAfter: -1}
	d := NewDispatcher(&fakeOpener{}, &fakeClipboard{}, driver, &fakeActivity{}, cfg)

	start := time.Now()
	require.NoError(t, d.Dispatch(context.Background(), notification()))
	d.Wait()

	// worst case: initial delay + attempts*poll + settle, with scheduler slack
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 10, driver.focusCalls)
	assert.Len(t, driver.pastes, 1)
}

func TestDispatcher_ConcurrentAssistsSerialize(t *testing.T) {
	clipboard := &fakeClipboard{}
	driver := &fakeDriver{focusAfter: 0}
	d := NewDispatcher(&fakeOpener{}, clipboard, driver, &fakeActivity{}, fastAssist(true))

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Dispatch(context.Background(), notification()))
	}
	d.Wait()

	// one clipboard stage and one paste per dispatch, never interleaved
	assert.Len(t, clipboard.texts, 5)
	assert.Len(t, driver.pastes, 5)
}
