package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
)

// NA marks a value that could not be computed.
const NA = "NA"

// TimeLayout is used for every timestamp cell.
const TimeLayout = "2006-01-02 15:04"

// FormatPrice prints a price with at most two decimals, or NA.
func FormatPrice(p prices.Price) string {
	if !p.Valid {
		return NA
	}
	return trimFloat(p.Value)
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// FormatVariation renders a relative change as a signed whole percentage with a
// space after the sign, e.g. "+ 40  %" or "- 5   %".
func FormatVariation(v float64) string {
	s := fmt.Sprintf("%+.0f", v*100)
	s = s[:1] + " " + s[1:]
	return fmt.Sprintf("%-5s %%", s)
}

func fixed2(v float64, err error) string {
	if err != nil {
		return NA
	}
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64, err error) string {
	if err != nil {
		return NA
	}
	return fmt.Sprintf("%.0f%%", v*100)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
