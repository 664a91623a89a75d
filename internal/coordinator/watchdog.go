package coordinator

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/scrollback/internal/errors"
)

// WatchdogTickMsg triggers a stuck flag check.
type WatchdogTickMsg time.Time

// Watchdog reports flags held longer than Timing.StuckTimeout. It never
// releases anything; a stuck flag means some path forgot to release.
type Watchdog struct {
	env      *env
	reported map[string]time.Time
	log      *slog.Logger
}

// Start schedules the first check. It returns nil if the watchdog is disabled.
func (w *Watchdog) Start() tea.Cmd {
	if w.env.Timing.WatchdogInterval <= 0 || w.env.Timing.StuckTimeout <= 0 {
		return nil
	}
	return tea.Tick(w.env.Timing.WatchdogInterval, func(t time.Time) tea.Msg {
		return WatchdogTickMsg(t)
	})
}

func (w *Watchdog) check(msg WatchdogTickMsg) tea.Cmd {
	now := time.Time(msg)
	timeout := w.env.Timing.StuckTimeout

	iface, ctl := w.env.Screen.Interface(), w.env.Screen.Controller()
	for _, h := range iface.Stale(now, timeout) {
		w.report(iface.Name(), string(h.Flag), h.Since, now)
	}
	for _, h := range ctl.Stale(now, timeout) {
		w.report(ctl.Name(), string(h.Flag), h.Since, now)
	}
	return w.Start()
}

// report raises each acquisition of a flag once.
func (w *Watchdog) report(set, flag string, since, now time.Time) {
	if prev, ok := w.reported[flag]; ok && prev.Equal(since) {
		return
	}
	w.reported[flag] = since
	w.log.Warn("stuck flag", "set", set, "flag", flag, "since", since)
	w.env.Screen.Report(errors.StuckFlag(flag, now.Sub(since)))
}

// Check runs one stuck flag check at now without scheduling another.
func (w *Watchdog) Check(now time.Time) {
	w.check(WatchdogTickMsg(now))
}
