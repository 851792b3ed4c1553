package engine

import (
	"strconv"
	"strings"

	"github.com/david/funding-applicator/internal/models"
)

const businessPlaceholder = "[Your Business Name]"

// BuildTemplate synthesizes a fill-in-the-blank starter answer for a
// requirements chunk. Known profile fields are substituted directly;
// unknown fields stay as bracketed placeholders so the user never sees
// a blank.
func BuildTemplate(chunk string, profile models.Profile, opp models.Opportunity) string {
	biz := businessName(profile)
	return biz + " provides [FILL THIS IN: what you sell or do] to [FILL THIS IN: who your customers are]. " +
		"We are different because [FILL THIS IN: what makes you special]. " +
		"We will use this funding for [FILL THIS IN: specific use]. " +
		"Our goal is [FILL THIS IN: the result you want]."
}

func businessName(profile models.Profile) string {
	if strings.TrimSpace(profile.BusinessName) != "" {
		return profile.BusinessName
	}
	return businessPlaceholder
}

// FormatAmountRange renders the funding bounds as a currency range when
// both are known, or the generic "[amount]" placeholder otherwise.
func FormatAmountRange(opp models.Opportunity) string {
	if opp.MinAmount == nil || opp.MaxAmount == nil {
		return "[amount]"
	}
	return "$" + formatThousands(*opp.MinAmount) + " – $" + formatThousands(*opp.MaxAmount)
}

// formatThousands renders a non-negative amount with comma grouping,
// dropping fractional cents the way the funder-facing views do.
func formatThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
