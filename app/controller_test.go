package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pomodoro/clock"
	"github.com/lixenwraith/pomodoro/render"
	"github.com/lixenwraith/pomodoro/timer"
)

// MockScreen feeds queued events and counts frames shown
type MockScreen struct {
	tcell.Screen
	events chan tcell.Event

	mu    sync.Mutex
	shows int
	syncs int
}

func newMockScreen() *MockScreen {
	return &MockScreen{events: make(chan tcell.Event, 10)}
}

func (m *MockScreen) Size() (int, int)                                  { return 80, 24 }
func (m *MockScreen) SetContent(x, y int, r rune, c []rune, s tcell.Style) {}
func (m *MockScreen) PollEvent() tcell.Event                            { return <-m.events }

func (m *MockScreen) Show() {
	m.mu.Lock()
	m.shows++
	m.mu.Unlock()
}

func (m *MockScreen) Sync() {
	m.mu.Lock()
	m.syncs++
	m.mu.Unlock()
}

func (m *MockScreen) showCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}

type mockSound struct {
	enabled bool
	calls   int
	volume  float64
}

func (m *mockSound) ToggleMute() bool {
	m.calls++
	m.enabled = !m.enabled
	return m.enabled
}

func (m *mockSound) Volume() float64 { return m.volume }

func (m *mockSound) SetVolume(vol float64) {
	if vol < 0 {
		vol = 0
	}
	if vol > 1 {
		vol = 1
	}
	m.volume = vol
}

type fixture struct {
	ctrl   *Controller
	engine *timer.Engine
	sched  *clock.Manual
	screen *MockScreen
	sound  *mockSound
}

func newFixture(t *testing.T, minutes, seconds int) *fixture {
	t.Helper()
	f := &fixture{
		sched:  clock.NewManual(),
		screen: newMockScreen(),
		sound:  &mockSound{enabled: true, volume: 0.5},
	}
	f.ctrl = New(f.screen, f.sound)
	f.engine = timer.New(f.sched,
		timer.WithSink(f.ctrl),
		timer.WithObserver(f.ctrl),
		timer.WithNotifier(timer.NotifierFunc(func(ev timer.Expiry) { f.ctrl.Alert(ev.Message) })),
	)
	if err := f.engine.Configure(minutes, seconds); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	f.ctrl.Bind(f.engine)
	return f
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func (f *fixture) press(t *testing.T, evs ...*tcell.EventKey) {
	t.Helper()
	for _, ev := range evs {
		if !f.ctrl.HandleKey(ev) {
			t.Fatalf("key %v unexpectedly quit", ev.Name())
		}
	}
}

func TestToggleStartsAndStops(t *testing.T) {
	f := newFixture(t, 0, 3)

	if got := f.ctrl.Model().Button; got != render.LabelStart {
		t.Fatalf("initial button = %q", got)
	}

	f.press(t, char(' '))
	if f.engine.Phase() != timer.PhaseRunning {
		t.Fatalf("phase after space = %v", f.engine.Phase())
	}
	if got := f.ctrl.Model().Button; got != render.LabelStop {
		t.Errorf("running button = %q", got)
	}
	if f.sched.Active() != 1 {
		t.Errorf("active handles = %d, want 1", f.sched.Active())
	}

	f.sched.Advance(time.Second)
	if got := f.ctrl.Model().Frame.Seconds; got != "02" {
		t.Errorf("seconds after one tick = %q", got)
	}

	f.press(t, key(tcell.KeyEnter))
	if f.engine.Phase() != timer.PhaseIdle {
		t.Fatalf("phase after enter = %v", f.engine.Phase())
	}
	if got := f.ctrl.Model().Button; got != render.LabelStart {
		t.Errorf("stopped button = %q", got)
	}
	if f.sched.Active() != 0 {
		t.Errorf("active handles after stop = %d", f.sched.Active())
	}
}

func TestExpiryShowsAlert(t *testing.T) {
	f := newFixture(t, 0, 3)

	f.press(t, char(' '))
	f.sched.Advance(3 * time.Second)

	m := f.ctrl.Model()
	if m.Frame.Minutes != "00" || m.Frame.Seconds != "00" {
		t.Errorf("final readout = %s:%s", m.Frame.Minutes, m.Frame.Seconds)
	}
	if m.Button != render.LabelNewTime {
		t.Errorf("button = %q, want %q", m.Button, render.LabelNewTime)
	}
	if m.Alert != timer.DefaultMessage {
		t.Errorf("alert = %q", m.Alert)
	}

	// Any key only dismisses the dialog
	f.press(t, char('x'))
	m = f.ctrl.Model()
	if m.Alert != "" {
		t.Error("alert not dismissed")
	}
	if m.Settings || f.engine.Phase() != timer.PhaseExpired {
		t.Error("dismiss key had side effects")
	}
}

func TestNewTimeOpensSettings(t *testing.T) {
	f := newFixture(t, 0, 3)
	f.press(t, char(' '))
	f.sched.Advance(3 * time.Second)
	f.press(t, char('x')) // dismiss

	f.press(t, char(' '))
	m := f.ctrl.Model()
	if !m.Settings {
		t.Fatal("new time did not open settings")
	}
	if m.MinutesText != "0" || m.SecondsText != "3" {
		t.Errorf("fields = %q:%q, want 0:3", m.MinutesText, m.SecondsText)
	}

	f.press(t, key(tcell.KeyEnter))
	m = f.ctrl.Model()
	if m.Settings {
		t.Error("enter did not close settings")
	}
	if f.engine.Phase() != timer.PhaseIdle || f.engine.Snapshot().Remaining != 3 {
		t.Errorf("after closing settings: %+v", f.engine.Snapshot())
	}
	if m.Button != render.LabelStart || m.Frame.Zone != timer.ZoneNormal {
		t.Errorf("button %q zone %v after closing settings", m.Button, m.Frame.Zone)
	}
}

func TestSettingsEditsReconfigure(t *testing.T) {
	f := newFixture(t, 0, 3)

	f.press(t, char('s'))
	if !f.ctrl.Model().Settings {
		t.Fatal("s did not open settings")
	}

	f.press(t, key(tcell.KeyBackspace2), char('2'))
	if got := f.engine.Snapshot().Configured; got != 123 {
		t.Errorf("configured after minutes edit = %d, want 123", got)
	}

	f.press(t, key(tcell.KeyTab), key(tcell.KeyBackspace), key(tcell.KeyBackspace))
	if got := f.engine.Snapshot().Configured; got != 120 {
		t.Errorf("configured after clearing seconds = %d, want 120", got)
	}

	f.press(t, key(tcell.KeyUp))
	if got := f.ctrl.Model().SecondsText; got != "1" {
		t.Errorf("seconds after up = %q", got)
	}
	f.press(t, key(tcell.KeyDown), key(tcell.KeyDown))
	if got := f.ctrl.Model().SecondsText; got != "0" {
		t.Errorf("seconds floor = %q", got)
	}

	// Space does nothing while the start button is hidden
	f.press(t, char(' '))
	if f.engine.Phase() != timer.PhaseIdle {
		t.Error("space started the timer in settings mode")
	}

	if z := f.ctrl.Model().Frame.Zone; z != timer.ZoneNormal {
		t.Errorf("zone during settings = %v", z)
	}

	f.press(t, char('s'))
	m := f.ctrl.Model()
	if m.Settings || m.Frame.Minutes != "02" || m.Frame.Seconds != "00" {
		t.Errorf("after closing: settings=%v readout %s:%s", m.Settings, m.Frame.Minutes, m.Frame.Seconds)
	}
}

func TestFieldWidthLimits(t *testing.T) {
	f := newFixture(t, 0, 0)
	f.press(t, char('s'), key(tcell.KeyBackspace))

	f.press(t, char('1'), char('2'), char('3'), char('4'))
	if got := f.ctrl.Model().MinutesText; got != "123" {
		t.Errorf("minutes = %q, want 123", got)
	}

	f.press(t, key(tcell.KeyTab), key(tcell.KeyBackspace), char('9'), char('9'), char('9'))
	if got := f.ctrl.Model().SecondsText; got != "99" {
		t.Errorf("seconds = %q, want 99", got)
	}
	if got := f.engine.Snapshot().Configured; got != 123*60+99 {
		t.Errorf("configured = %d", got)
	}

	f.press(t, key(tcell.KeyUp))
	if got := f.ctrl.Model().SecondsText; got != "99" {
		t.Errorf("seconds above width = %q", got)
	}
}

func TestZeroDurationOpensSettings(t *testing.T) {
	f := newFixture(t, 0, 0)

	if got := f.ctrl.Model().Button; got != render.LabelNewTime {
		t.Errorf("zero duration button = %q", got)
	}
	f.press(t, char(' '))
	if !f.ctrl.Model().Settings {
		t.Error("start on zero duration should open settings")
	}
	if f.sched.Active() != 0 {
		t.Error("zero duration registered a tick")
	}
}

func TestSettingsBlockedWhileRunning(t *testing.T) {
	f := newFixture(t, 1, 0)

	f.press(t, char(' '), char('s'))
	if f.ctrl.Model().Settings {
		t.Error("settings opened while running")
	}
	if f.engine.Phase() != timer.PhaseRunning {
		t.Error("s changed the running timer")
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"q", char('q')},
		{"escape", key(tcell.KeyEscape)},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1, 0)
			if f.ctrl.HandleKey(tt.ev) {
				t.Error("expected quit")
			}
		})
	}

	// Ctrl-C quits even with the dialog open; q only dismisses it
	f := newFixture(t, 1, 0)
	f.ctrl.Alert("Time is up!")
	if !f.ctrl.HandleKey(char('q')) {
		t.Error("q should dismiss the alert, not quit")
	}
	f.ctrl.Alert("Time is up!")
	if f.ctrl.HandleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Error("ctrl-c should quit with alert open")
	}
}

func TestMuteToggle(t *testing.T) {
	f := newFixture(t, 1, 0)

	f.press(t, char('m'))
	if !f.ctrl.Model().Muted || f.sound.calls != 1 {
		t.Errorf("muted=%v calls=%d", f.ctrl.Model().Muted, f.sound.calls)
	}
	f.press(t, char('m'))
	if f.ctrl.Model().Muted {
		t.Error("second m did not unmute")
	}
}

func TestVolumeKeys(t *testing.T) {
	f := newFixture(t, 1, 0)

	f.press(t, char('+'), char('='))
	if v := f.sound.volume; v < 0.69 || v > 0.71 {
		t.Errorf("volume after two steps up = %v, want 0.7", v)
	}
	if got := f.ctrl.Model().Status; got != "volume 70%" {
		t.Errorf("status = %q", got)
	}

	for i := 0; i < 10; i++ {
		f.press(t, char('-'))
	}
	if f.sound.volume != 0 {
		t.Errorf("volume floor = %v", f.sound.volume)
	}

	// Volume keys never touch the timer fields in settings mode
	f.press(t, char('s'), char('-'))
	if got := f.ctrl.Model().MinutesText; got != "1" {
		t.Errorf("minutes after '-' in settings = %q", got)
	}
}

// blockingSink stalls the first running frame until released
type blockingSink struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSink) Render(f timer.Frame) {
	if f.Phase != timer.PhaseRunning {
		return
	}
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
}

func TestStopDuringTickKeepsStartButton(t *testing.T) {
	sched := clock.NewManual()
	ctrl := New(newMockScreen(), nil)
	block := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	engine := timer.New(sched,
		timer.WithSink(timer.Sinks{block, ctrl}),
		timer.WithObserver(ctrl),
	)
	engine.Configure(0, 10)
	ctrl.Bind(engine)

	if !ctrl.HandleKey(char(' ')) {
		t.Fatal("space quit")
	}

	fired := make(chan struct{})
	go func() {
		sched.Fire()
		close(fired)
	}()
	<-block.entered

	// Space stops the timer while the tick is still delivering its frame
	handled := make(chan struct{})
	go func() {
		ctrl.HandleKey(char(' '))
		close(handled)
	}()
	time.Sleep(10 * time.Millisecond)
	close(block.release)
	<-fired
	<-handled

	m := ctrl.Model()
	if engine.Phase() != timer.PhaseIdle {
		t.Fatalf("engine phase = %v, want Idle", engine.Phase())
	}
	if m.Frame.Phase != timer.PhaseIdle || m.Button != render.LabelStart {
		t.Errorf("model phase=%v button=%q, want Idle and %q", m.Frame.Phase, m.Button, render.LabelStart)
	}
	if m.Frame.Seconds != "09" {
		t.Errorf("readout seconds = %q, want the tick's 09", m.Frame.Seconds)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	f := newFixture(t, 1, 0)

	done := make(chan error, 1)
	go func() { done <- f.ctrl.Run(context.Background()) }()

	f.screen.events <- tcell.NewEventResize(80, 24)
	f.screen.events <- char('q')

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
	close(f.screen.events)

	if f.screen.showCount() == 0 {
		t.Error("Run never drew")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	f := newFixture(t, 1, 0)
	defer close(f.screen.events)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.ctrl.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run ignored context cancellation")
	}
}

func TestRunRequiresEngine(t *testing.T) {
	c := New(newMockScreen(), nil)
	if err := c.Run(context.Background()); err == nil {
		t.Error("expected error without engine")
	}
}
