package engine

import (
	"log"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
)

// pollInterval is the control worker's cooperative polling period,
// matching the original single-threaded ~100Hz control loop.
const pollInterval = 10 * time.Millisecond

// RunControlWorker is the sole goroutine that mutates engine state. It
// drains CommandMsg values off commands, dispatches each through
// e.Dispatch, and replies on the message's own channel. It ticks on
// pollInterval purely to give the loop a cooperative cadence to idle on
// between commands; the tick does no work, and dispatch itself is
// driven by message arrival. Per spec.md's cancellation rule, commands
// 4 (emergency stop) and 999 (disconnect) clear the run flag; the
// worker returns right after replying to the command that cleared it.
func RunControlWorker(e *Engine, commands <-chan CommandMsg, done <-chan struct{}) {
	ticker := channerics.NewTicker(done, pollInterval)
	for {
		select {
		case <-done:
			return
		case msg, ok := <-commands:
			if !ok {
				return
			}
			result := e.Dispatch(msg.Cmd, msg.Axis, msg.Params)
			if msg.Reply != nil {
				msg.Reply <- result
			}
			if !e.Running() {
				log.Printf("[control] engine stopped running after cmd %d, shutting down", msg.Cmd)
				return
			}
		case _, ok := <-ticker:
			if !ok {
				return
			}
		}
	}
}
