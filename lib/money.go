package lib

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice reads a decimal-as-text price. Spaces and a comma decimal
// separator are accepted since admins type prices by hand.
func ParsePrice(price string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(price), " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}
	return value, nil
}

// LineTotal returns price*quantity rounded to cents.
func LineTotal(price string, quantity int) (float64, error) {
	value, err := ParsePrice(price)
	if err != nil {
		return 0, err
	}
	return math.Round(value*float64(quantity)*100) / 100, nil
}
