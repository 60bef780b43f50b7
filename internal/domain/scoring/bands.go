package scoring

// Classification is one of the nine ordered bands partitioning
// [-220, +220] (spec §3, §4.2 step 5).
type Classification string

const (
	ExtremeBuy  Classification = "EXTREME_BUY"
	StrongBuy   Classification = "STRONG_BUY"
	Buy         Classification = "BUY"
	BuyWeak     Classification = "BUY_WEAK"
	Neutral     Classification = "NEUTRAL"
	SellWeak    Classification = "SELL_WEAK"
	Sell        Classification = "SELL"
	StrongSell  Classification = "STRONG_SELL"
	ExtremeSell Classification = "EXTREME_SELL"
)

// Band is a closed integer interval and its classification label.
type Band struct {
	Name Classification
	Low  int
	High int
}

// Mid returns the integer midpoint of the band, used by the
// classification idempotence law (spec §8).
func (b Band) Mid() int {
	return (b.Low + b.High) / 2
}

// Contains reports whether score falls inside the closed interval.
func (b Band) Contains(score int) bool {
	return score >= b.Low && score <= b.High
}

// bands partitions [-220, 220] with no gaps and no overlaps (spec §8
// invariant 7), matching the boundary scenarios: 130 => EXTREME_BUY,
// 129 => STRONG_BUY, -39 => NEUTRAL, -40 => SELL_WEAK.
var bands = []Band{
	{ExtremeSell, -220, -130},
	{StrongSell, -129, -100},
	{Sell, -99, -70},
	{SellWeak, -69, -40},
	{Neutral, -39, 39},
	{BuyWeak, 40, 69},
	{Buy, 70, 99},
	{StrongBuy, 100, 129},
	{ExtremeBuy, 130, 220},
}

// Classify returns the band containing score via a linear scan, first
// match wins (bands never overlap so order is immaterial to
// correctness, only to scan cost).
func Classify(score int) Band {
	for _, b := range bands {
		if b.Contains(score) {
			return b
		}
	}
	// Unreachable for score in [-220, 220]; callers clamp beforehand.
	return bands[4]
}

// Bands exposes the full partition, e.g. for tests asserting no gaps
// or overlaps.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}
