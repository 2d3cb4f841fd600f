package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// Money is an amount in centavos. It travels as a decimal number on the wire.
type Money int64

// MoneyFromFloat converts a decimal amount in reais to Money, rounding to the nearest centavo.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// Float returns the amount in reais.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Times multiplies the amount by a quantity.
func (m Money) Times(n int) Money {
	return m * Money(n)
}

// Discount applies a percentage discount, rounding half up to the centavo.
func (m Money) Discount(percent int) Money {
	if percent <= 0 {
		return m
	}
	if percent >= 100 {
		return 0
	}
	return (m*Money(100-percent) + 50) / 100
}

// Decimal renders the amount with a dot separator and two places, as used in payment payloads.
func (m Money) Decimal() string {
	return strconv.FormatFloat(m.Float(), 'f', 2, 64)
}

// BRL formats the amount as Brazilian reais, e.g. "R$ 49,99".
func (m Money) BRL() string {
	return brl.Sprintf("R$ %.2f", m.Float())
}

func (m Money) String() string {
	return m.BRL()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers and numeric strings ("20.00").
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", string(data), err)
	}
	*m = MoneyFromFloat(v)
	return nil
}
