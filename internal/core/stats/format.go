package stats

import (
	"math/big"
	"strconv"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printerOnce sync.Once
	printer     *message.Printer
)

func koPrinter() *message.Printer {
	printerOnce.Do(func() { printer = message.NewPrinter(language.Korean) })
	return printer
}

// FormatCount renders n with thousands separators
func FormatCount(n int64) string { return koPrinter().Sprintf("%d", n) }

// FormatMagnitude renders usage figures: 1.5M, 2.0K, or 999 with separators below a thousand
func FormatMagnitude(n int64) string {
	switch {
	case n >= 1_000_000:
		return fixed1(float64(n)/1e6) + "M"
	case n >= 1_000:
		return fixed1(float64(n)/1e3) + "K"
	}
	return FormatCount(n)
}

// fixed1 rounds x to one decimal, ties away from zero on the exact binary value
// strconv rounds ties to even, which turns 1.25 into 1.2 where the dashboard shows 1.3
func fixed1(x float64) string {
	if x < 0 {
		return "-" + fixed1(-x)
	}
	f := new(big.Float).SetPrec(128).SetFloat64(x)
	f.Mul(f, big.NewFloat(10))
	f.Add(f, big.NewFloat(0.5))
	n, _ := f.Int(nil)
	tenths := n.Int64()
	return strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10)
}
