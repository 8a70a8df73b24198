package domain

import (
	"fmt"
	"math/big"
	"time"
)

const nanosPerSecond = int64(time.Second)

// Window is a half-open time interval [Start, End) searched for the instant
// at which a diagnostic query stops holding. Windows are values; narrowing
// returns a new Window and never touches the receiver.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns a window after checking that start precedes end.
func NewWindow(start, end time.Time) (Window, error) {
	if !start.Before(end) {
		return Window{}, fmt.Errorf("%w: window start %s is not before end %s",
			ErrInvalidInput, FormatTimestamp(start), FormatTimestamp(end))
	}
	return Window{Start: start, End: end}, nil
}

// Exhausted reports whether the window has no width left.
func (w Window) Exhausted() bool {
	return !w.Start.Before(w.End)
}

// Width returns End - Start, saturating at the bounds of time.Duration.
func (w Window) Width() time.Duration {
	return w.End.Sub(w.Start)
}

// Midpoint returns Start + (End - Start) / 2 rounded towards Start.
// The arithmetic is done on seconds and nanoseconds separately so windows
// wider than time.Duration can represent still split at their true centre.
func (w Window) Midpoint() time.Time {
	startSec, startNsec := w.Start.Unix(), int64(w.Start.Nanosecond())
	endSec, endNsec := w.End.Unix(), int64(w.End.Nanosecond())

	diffSec := endSec - startSec
	diffNsec := endNsec - startNsec

	halfNsec := diffNsec / 2
	if diffNsec < 0 && diffNsec%2 != 0 {
		halfNsec--
	}
	halfNsec += (diffSec % 2) * (nanosPerSecond / 2)

	mid := time.Unix(startSec+diffSec/2, startNsec+halfNsec)
	return mid.In(w.Start.Location())
}

// Earlier returns the window [Start, t).
func (w Window) Earlier(t time.Time) Window {
	return Window{Start: w.Start, End: t}
}

// Later returns the window [t, End).
func (w Window) Later(t time.Time) Window {
	return Window{Start: t, End: w.End}
}

// String implements fmt.Stringer.
func (w Window) String() string {
	return FormatTimestamp(w.Start) + " - " + FormatTimestamp(w.End)
}

// widthNanos returns the exact window width in nanoseconds.
func (w Window) widthNanos() *big.Int {
	sec := big.NewInt(w.End.Unix() - w.Start.Unix())
	sec.Mul(sec, big.NewInt(nanosPerSecond))
	return sec.Add(sec, big.NewInt(int64(w.End.Nanosecond())-int64(w.Start.Nanosecond())))
}

// IterationBudget returns floor(log2(width / accuracy)) + 2, the maximum
// number of midpoint probes needed to narrow w down to accuracy. A quotient
// below one contributes nothing to the logarithm. Accuracy must be positive.
func IterationBudget(w Window, accuracy time.Duration) int {
	if accuracy <= 0 || w.Exhausted() {
		return 0
	}
	quotient := new(big.Int).Quo(w.widthNanos(), big.NewInt(int64(accuracy)))
	log2 := 0
	if quotient.Sign() > 0 {
		log2 = quotient.BitLen() - 1
	}
	return log2 + 2
}

// FormatTimestamp renders t in RFC 3339 with nanosecond precision in UTC,
// the form accepted by gcloud and Spanner read timestamps.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp parses an RFC 3339 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q is not RFC 3339: %v", ErrInvalidInput, s, err)
	}
	return t, nil
}
