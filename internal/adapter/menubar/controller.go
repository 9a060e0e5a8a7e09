// Package menubar renders the agent as a macOS menu-bar item using
// fyne.io/systray. All menu reads go through state accessors that never
// touch the browser, so the UI stays responsive while an automation flow
// is mid-wait.
package menubar

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"fyne.io/systray"
	"github.com/rs/zerolog/log"

	"github.com/punchbar/punchbar/internal/domain"
	"github.com/punchbar/punchbar/internal/port"
	"github.com/punchbar/punchbar/internal/usecase/agent"
)

// Controller wires agent operations to menu items. Construct with New, then
// pass OnReady/OnExit to systray.Run from the main goroutine.
type Controller struct {
	agent    *agent.Agent
	notifier port.Notifier
	ctx      context.Context
	ready    atomic.Bool

	clockIn     *systray.MenuItem
	clockOut    *systray.MenuItem
	timerLine   *systray.MenuItem
	checkStatus *systray.MenuItem
	setup       *systray.MenuItem
	restart     *systray.MenuItem
	quit        *systray.MenuItem
}

func New(ctx context.Context, a *agent.Agent, notifier port.Notifier) *Controller {
	return &Controller{agent: a, notifier: notifier, ctx: ctx}
}

// Refresh repaints the title glyph and item enablement from the given
// status. Safe to call from any goroutine; a no-op until OnReady has built
// the menu.
func (c *Controller) Refresh(status domain.PunchStatus) {
	if !c.ready.Load() {
		return
	}
	systray.SetTitle(domain.TitleGlyph(status))
	enableIn, enableOut := domain.EnabledActions(status)
	setEnabled(c.clockIn, enableIn)
	setEnabled(c.clockOut, enableOut)
	c.timerLine.SetTitle(c.agent.ElapsedLine())
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

// OnReady builds the menu and starts the click and ticker loops.
func (c *Controller) OnReady() {
	systray.SetTitle(domain.TitleGlyph(domain.StatusUnknown))
	systray.SetTooltip("Punchbar")

	c.clockIn = systray.AddMenuItem("Clock In", "Clock in on Gusto")
	c.clockOut = systray.AddMenuItem("Clock Out", "Clock out on Gusto")
	systray.AddSeparator()
	c.timerLine = systray.AddMenuItem(c.agent.ElapsedLine(), "")
	c.timerLine.Disable()
	systray.AddSeparator()
	c.checkStatus = systray.AddMenuItem("Check Status", "Detect clock state from the dashboard")
	c.setup = systray.AddMenuItem("Setup", "Enter Gusto credentials")
	c.restart = systray.AddMenuItem("Restart Session", "Discard and relaunch the browser session")
	c.quit = systray.AddMenuItem("Quit", "Quit Punchbar")

	c.ready.Store(true)
	c.Refresh(c.agent.Status())

	go c.handleClicks()
	go c.tickTimerLine()
}

// OnExit closes any live browser session before the tray goes away.
func (c *Controller) OnExit() {
	c.agent.CloseSession()
	log.Info().Msg("menu bar exiting")
}

// handleClicks serializes menu operations: a click is handled to completion
// before the next one is read, which matches the single browser session
// underneath.
func (c *Controller) handleClicks() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.clockIn.ClickedCh:
			c.doClock(domain.ClockIn)
		case <-c.clockOut.ClickedCh:
			c.doClock(domain.ClockOut)
		case <-c.checkStatus.ClickedCh:
			c.doCheckStatus()
		case <-c.setup.ClickedCh:
			c.doSetup()
		case <-c.restart.ClickedCh:
			c.doRestart()
		case <-c.quit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

// tickTimerLine refreshes the elapsed-time line once a minute. ElapsedLine
// reads only stored state, so this never blocks on the browser.
func (c *Controller) tickTimerLine() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.timerLine.SetTitle(c.agent.ElapsedLine())
		}
	}
}

func (c *Controller) doClock(action domain.ClockAction) {
	verb := "in"
	if action == domain.ClockOut {
		verb = "out"
	}
	c.notifier.Notify("Punchbar", "Clocking "+verb+"...")

	err := c.agent.Clock(c.ctx, action)
	switch {
	case err == nil:
		c.notifier.Notify("Punchbar", "Clocked "+verb+" successfully")
	case errors.Is(err, agent.ErrAlreadyInState):
		c.notifier.Notify("Punchbar", "Already clocked "+verb)
	case errors.Is(err, agent.ErrNotConfigured):
		c.notifier.Notify("Punchbar", "Run Setup first")
	default:
		log.Err(err).Str("action", string(action)).Msg("clock failed")
		c.notifier.Notify("Punchbar", "Failed to clock "+verb)
	}
	c.Refresh(c.agent.Status())
}

func (c *Controller) doCheckStatus() {
	status, err := c.agent.CheckStatus(c.ctx)
	if err != nil {
		if errors.Is(err, agent.ErrNotConfigured) {
			c.notifier.Notify("Punchbar", "Run Setup first")
		} else {
			log.Err(err).Msg("status check failed")
			c.notifier.Notify("Punchbar", "Could not detect clock status")
		}
	} else {
		c.notifier.Notify("Punchbar", "Currently clocked "+string(status))
	}
	c.Refresh(c.agent.Status())
}

func (c *Controller) doSetup() {
	err := c.agent.Setup(c.ctx)
	switch {
	case err == nil:
	case errors.Is(err, agent.ErrSetupCancelled):
		log.Info().Msg("setup cancelled")
	default:
		log.Err(err).Msg("setup failed")
		c.notifier.Notify("Punchbar", "Setup did not complete")
	}
	c.Refresh(c.agent.Status())
}

func (c *Controller) doRestart() {
	if err := c.agent.RestartSession(c.ctx); err != nil {
		log.Err(err).Msg("session restart failed")
		c.notifier.Notify("Punchbar", "Session restart failed")
	} else {
		c.notifier.Notify("Punchbar", "Session restarted")
	}
	c.Refresh(c.agent.Status())
}
