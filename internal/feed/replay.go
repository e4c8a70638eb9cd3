// Package feed moves bytes from files, followed captures and child programs
// into a console.
package feed

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

const (
	chunkSize       = 4096
	bitsPerByte     = 10 // 8N1: start bit, 8 data bits, stop bit
	burstsPerSecond = 50
)

// Replay copies src into dst until EOF or ctx is done. When baud is positive
// the copy is paced like a serial line of that speed, so escape-driven
// animations play back as they would over a modem.
func Replay(ctx context.Context, dst io.Writer, src io.Reader, baud int) (int64, error) {
	lim := lineLimiter(baud)
	size := chunkSize
	if lim != nil {
		size = lim.Burst()
	}

	buf := make([]byte, size)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			if lim != nil {
				if err := lim.WaitN(ctx, n); err != nil {
					return total, err
				}
			}
			wn, werr := dst.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, rerr
		}
	}
}

// lineLimiter returns a byte-rate limiter for baud, or nil when unthrottled.
// The burst is about a fiftieth of a second of traffic.
func lineLimiter(baud int) *rate.Limiter {
	if baud <= 0 {
		return nil
	}
	perSecond := baud / bitsPerByte
	if perSecond < 1 {
		perSecond = 1
	}
	burst := perSecond / burstsPerSecond
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
