package stream

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/scopeacq/acquire/acqmetrics"
	"github.com/scopeacq/acquire/device"
	"github.com/scopeacq/acquire/proptype"
	"github.com/scopeacq/acquire/ring"
)

// runProducer pulls frames from the camera and commits them into the ring
// until ctx is cancelled, a polite stop is requested, or maxFrameCount
// frames have been committed. It never calls GetFrame again once any of
// those conditions holds, closing the race window the invariant in
// SPEC_FULL.md §5 names ("no GetFrame after Stop").
func (p *Pipeline) runProducer(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.producerDone)

	label := strconv.Itoa(p.streamID)
	frameBytes, err := proptype.BytesOfImage(p.shape)
	if err != nil {
		p.fail(err)
		return
	}
	buf := make([]byte, frameBytes)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if p.stopRequested.Load() {
			return
		}
		if p.maxFrameCount > 0 && p.committed.Load() >= p.maxFrameCount {
			return
		}

		n, info, err := p.camera.GetFrame(buf)
		if errors.Is(err, device.ErrAgain) {
			select {
			case <-time.After(pollInterval):
			case <-ctx.Done():
				return
			}
			continue
		}
		if err != nil {
			p.fail(err)
			return
		}

		rawLen := proptype.HeaderSize + n
		total := int(proptype.AlignUp(uint64(rawLen), 8))
		wbuf, _, err := p.ring.MapWrite(rawLen)
		if err != nil {
			if errors.Is(err, ring.ErrWouldDrop) {
				// A dropped frame still consumes a frame_id, so the gaps a
				// reader sees in FrameID match the frames dropped.
				p.frameID.Add(1)
				dropped := p.ring.DropCount()
				p.logger.Dropped(p.streamID, dropped)
				acqmetrics.FramesDropped.WithLabelValues(label).Inc()
				continue
			}
			p.fail(err)
			return
		}

		header := proptype.FrameHeader{
			BytesOfFrame:      uint64(total),
			Shape:             info.Shape,
			StreamID:          uint32(p.streamID),
			FrameID:           p.frameID.Load(),
			TimestampHWUs:     info.TimestampHWUs,
			TimestampSystemUs: uint64(time.Now().UnixMicro()),
		}
		if err := proptype.EncodeHeader(wbuf, header); err != nil {
			p.fail(err)
			return
		}
		copy(wbuf[proptype.HeaderSize:], buf[:n])

		if err := p.ring.CommitWrite(rawLen, nil); err != nil {
			p.fail(err)
			return
		}

		p.frameID.Add(1)
		p.committed.Add(1)
		acqmetrics.FramesCommitted.WithLabelValues(label).Inc()
	}
}
