package domain

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// Denomination is one of the four fixed coin types.
type Denomination string

const (
	DenomPlatinum Denomination = "platinum"
	DenomGold     Denomination = "gold"
	DenomSilver   Denomination = "silver"
	DenomCopper   Denomination = "copper"
)

// Currency arithmetic constants
const (
	// ConversionPrecision is the number of fractional digits kept by Convert
	ConversionPrecision = 6

	// RestockCostNumerator / RestockCostDenominator express the 30% restock fee
	RestockCostNumerator   = 3
	RestockCostDenominator = 10

	// MaxAmount caps a single component offered on the exchange
	MaxAmount int64 = 1_000_000_000_000
)

var denominations = []Denomination{DenomPlatinum, DenomGold, DenomSilver, DenomCopper}

// Denominations returns every denomination in display order.
func Denominations() []Denomination {
	out := make([]Denomination, len(denominations))
	copy(out, denominations)
	return out
}

// ParseDenomination maps a wire key onto a Denomination.
func ParseDenomination(s string) (Denomination, error) {
	d := Denomination(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four known denominations.
func (d Denomination) Valid() bool {
	switch d {
	case DenomPlatinum, DenomGold, DenomSilver, DenomCopper:
		return true
	default:
		return false
	}
}

func (d Denomination) String() string {
	return string(d)
}

// Currency is a balance or price split across the four denominations.
// Components are independent: there is no implicit carry or borrow.
// Prices may carry negative components, meaning the shop pays the buyer.
type Currency struct {
	Platinum int64 `json:"platinum"`
	Gold     int64 `json:"gold"`
	Silver   int64 `json:"silver"`
	Copper   int64 `json:"copper"`
}

// Single builds an amount holding only one denomination.
func Single(d Denomination, amount int64) Currency {
	return Currency{}.With(d, amount)
}

// Get returns the component for d. Unknown denominations read as zero.
func (c Currency) Get(d Denomination) int64 {
	switch d {
	case DenomPlatinum:
		return c.Platinum
	case DenomGold:
		return c.Gold
	case DenomSilver:
		return c.Silver
	case DenomCopper:
		return c.Copper
	default:
		return 0
	}
}

// With returns a copy of c with the component for d replaced.
func (c Currency) With(d Denomination, v int64) Currency {
	switch d {
	case DenomPlatinum:
		c.Platinum = v
	case DenomGold:
		c.Gold = v
	case DenomSilver:
		c.Silver = v
	case DenomCopper:
		c.Copper = v
	}
	return c
}

func (c Currency) mapEach(fn func(d Denomination, v int64) int64) Currency {
	var out Currency
	for _, d := range denominations {
		out = out.With(d, fn(d, c.Get(d)))
	}
	return out
}

// Add sums two amounts per denomination.
func Add(a, b Currency) Currency {
	return a.mapEach(func(d Denomination, v int64) int64 { return v + b.Get(d) })
}

// Subtract returns a - b per denomination. The result may be negative.
func Subtract(a, b Currency) Currency {
	return a.mapEach(func(d Denomination, v int64) int64 { return v - b.Get(d) })
}

// Scale multiplies every component by factor.
func Scale(a Currency, factor int64) Currency {
	return a.mapEach(func(_ Denomination, v int64) int64 { return v * factor })
}

// AddChecked is Add that fails with ErrInvalidInput instead of wrapping around.
func AddChecked(a, b Currency) (Currency, error) {
	var out Currency
	for _, d := range denominations {
		x, y := a.Get(d), b.Get(d)
		s := x + y
		if (y > 0 && s < x) || (y < 0 && s > x) {
			return Currency{}, overflowError(d)
		}
		out = out.With(d, s)
	}
	return out, nil
}

// SubtractChecked is Subtract that fails with ErrInvalidInput instead of wrapping around.
func SubtractChecked(a, b Currency) (Currency, error) {
	var out Currency
	for _, d := range denominations {
		x, y := a.Get(d), b.Get(d)
		s := x - y
		if (y > 0 && s > x) || (y < 0 && s < x) {
			return Currency{}, overflowError(d)
		}
		out = out.With(d, s)
	}
	return out, nil
}

// ScaleChecked is Scale that fails with ErrInvalidInput instead of wrapping around.
func ScaleChecked(a Currency, factor int64) (Currency, error) {
	var out Currency
	for _, d := range denominations {
		v := a.Get(d)
		hi, lo := bits.Mul64(absUint(v), absUint(factor))
		if hi != 0 || lo > math.MaxInt64 {
			return Currency{}, overflowError(d)
		}
		r := int64(lo)
		if (v < 0) != (factor < 0) {
			r = -r
		}
		out = out.With(d, r)
	}
	return out, nil
}

func absUint(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func overflowError(d Denomination) error {
	return fmt.Errorf("%w: %s amount out of range", ErrInvalidInput, d)
}

// Negate flips the sign of every component.
func (c Currency) Negate() Currency {
	return Scale(c, -1)
}

// IsZero reports whether all components are zero.
func (c Currency) IsZero() bool {
	return c == Currency{}
}

// HasNegative reports whether any component is below zero.
func (c Currency) HasNegative() bool {
	for _, d := range denominations {
		if c.Get(d) < 0 {
			return true
		}
	}
	return false
}

// PositivePart keeps components above zero and zeroes the rest.
func (c Currency) PositivePart() Currency {
	return c.mapEach(func(_ Denomination, v int64) int64 { return max(v, 0) })
}

// NegativePart returns the magnitude of every negative component.
func (c Currency) NegativePart() Currency {
	return c.mapEach(func(_ Denomination, v int64) int64 { return max(-v, 0) })
}

// IsAffordable reports whether balance covers every positive component of price.
// Zero and negative price components never block a purchase.
func IsAffordable(balance, price Currency) bool {
	for _, d := range denominations {
		p := price.Get(d)
		if p > 0 && balance.Get(d) < p {
			return false
		}
	}
	return true
}

// Debit subtracts amount from balance and refuses any negative result.
// On error the original balance is returned unchanged.
func Debit(balance, amount Currency) (Currency, error) {
	next := Subtract(balance, amount)
	for _, d := range denominations {
		if next.Get(d) < 0 {
			return balance, fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientFunds, amount.Get(d), d, balance.Get(d))
		}
	}
	return next, nil
}

// RestockCost is ceil(30%) of every positive component of basePrice.
func RestockCost(basePrice Currency) Currency {
	return basePrice.mapEach(func(_ Denomination, v int64) int64 {
		if v <= 0 {
			return 0
		}
		q, r := v/RestockCostDenominator, v%RestockCostDenominator
		return q*RestockCostNumerator + (r*RestockCostNumerator+RestockCostDenominator-1)/RestockCostDenominator
	})
}

// String renders non-zero components, largest denomination first.
func (c Currency) String() string {
	var parts []string
	for _, d := range denominations {
		if v := c.Get(d); v != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", v, d))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, ", ")
}

// ExchangeRates values one unit of each denomination in a common base unit.
type ExchangeRates map[Denomination]int64

// DefaultExchangeRates values every denomination in copper.
var DefaultExchangeRates = ExchangeRates{
	DenomPlatinum: 1000,
	DenomGold:     100,
	DenomSilver:   10,
	DenomCopper:   1,
}

// Validate requires a positive rate for each of the four denominations.
func (r ExchangeRates) Validate() error {
	for _, d := range denominations {
		if r[d] <= 0 {
			return fmt.Errorf("%w: missing or non-positive rate for %s", ErrInvalidCurrency, d)
		}
	}
	return nil
}

// Convert expresses amount units of from in units of to, rounded to ConversionPrecision digits.
func (r ExchangeRates) Convert(amount int64, from, to Denomination) (float64, error) {
	if !from.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCurrency, from)
	}
	if !to.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCurrency, to)
	}
	fromRate, toRate := r[from], r[to]
	if fromRate <= 0 || toRate <= 0 {
		return 0, fmt.Errorf("%w: no rate for %s/%s", ErrInvalidCurrency, from, to)
	}
	raw := float64(amount) * float64(fromRate) / float64(toRate)
	scale := math.Pow10(ConversionPrecision)
	return math.Round(raw*scale) / scale, nil
}
