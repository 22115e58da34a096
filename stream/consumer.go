package stream

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/scopeacq/acquire/acqmetrics"
	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/ring"
)

// runConsumer drains committed records from the ring into the storage sink
// until there is nothing left to read and the producer has finished, or ctx
// is cancelled. On cancellation the consumer stops immediately without
// draining further; Abort takes responsibility for discarding whatever the
// ring still holds via Ring.Reset.
func (p *Pipeline) runConsumer(ctx context.Context) {
	defer p.wg.Done()

	label := strconv.Itoa(p.streamID)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		slice, err := p.ring.MapRead(ring.ConsumerReader)
		if err != nil {
			p.fail(err)
			return
		}

		if len(slice) == 0 {
			select {
			case <-ctx.Done():
				return
			case <-p.producerDone:
				// The producer is done; one more look to see whether it
				// committed a final record after our last MapRead.
				slice, err = p.ring.MapRead(ring.ConsumerReader)
				if err != nil {
					p.fail(err)
					return
				}
				if len(slice) == 0 {
					return
				}
			case <-time.After(pollInterval):
				continue
			}
		}

		consumed := 0
		for len(slice) > 0 {
			payload, isPad, n, ok := ring.NextRecord(slice)
			if !ok {
				break
			}
			if !isPad {
				_, state, err := p.storage.Append(payload)
				if err != nil || state != device.Running {
					_ = p.ring.UnmapRead(ring.ConsumerReader, consumed+int(n))
					if err != nil {
						p.fail(fmt.Errorf("storage append: %w", err))
					} else {
						p.fail(fmt.Errorf("storage append: sink left %s state", state))
					}
					return
				}
				acqmetrics.FramesAppended.WithLabelValues(label).Inc()
			}
			slice = slice[n:]
			consumed += int(n)
		}

		if consumed > 0 {
			if err := p.ring.UnmapRead(ring.ConsumerReader, consumed); err != nil {
				p.fail(err)
				return
			}
		}
	}
}
