package inertia

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const eventBuffer = 64

// Run feeds events from src into ctrl until ctx is done or src fails. A
// source that returns io.EOF ends the loop without error. NextEvent blocks,
// so the caller unblocks the reader by closing the source on shutdown.
func Run(ctx context.Context, src EventSource, ctrl *Controller) error {
	events := make(chan Event, eventBuffer)
	readErr := make(chan error, 1)

	go func() {
		defer close(events)
		for {
			ev, err := src.NextEvent()
			if err != nil {
				readErr <- err
				return
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if ok {
				ctrl.HandleEvent(ev)
				continue
			}

			select {
			case err := <-readErr:
				if errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("failed to read touch event: %w", err)
			default:
				return nil
			}
		}
	}
}
