package services

import (
	"regexp"
	"strings"

	portssvc "github.com/SscSPs/statement_import/internal/core/ports/services"
)

var (
	payeeSpacePattern = regexp.MustCompile(`\s+`)
	// Card-network and processor noise in front of the merchant.
	payeePrefixPattern = regexp.MustCompile(`(?i)^(?:POS(?: PURCHASE)?|PURCHASE|DEBIT CARD(?: PURCHASE)?|VISA DEBIT|INTERAC|SQ\s?\*|TST\s?\*|PP\s?\*|PAYPAL\s?\*)\s*`)
	// A store number and whatever location text follows it.
	payeeStorePattern  = regexp.MustCompile(`\s*(?:#\s*\d+|\b\d{3,}\b).*$`)
	payeeSuffixPattern = regexp.MustCompile(`(?i)[\s,]+(?:inc|llc|ltd|corp|co|company)\.?$`)
)

// RulePayeeShortener strips processor prefixes, store numbers and corporate suffixes from a
// payee string. Casing is kept.
type RulePayeeShortener struct{}

// NewRulePayeeShortener creates a RulePayeeShortener.
func NewRulePayeeShortener() *RulePayeeShortener {
	return &RulePayeeShortener{}
}

var _ portssvc.PayeeShortener = (*RulePayeeShortener)(nil)

// Shorten returns the short display name for name, or name with whitespace collapsed when
// nothing would be left.
func (RulePayeeShortener) Shorten(name string) string {
	collapsed := strings.TrimSpace(payeeSpacePattern.ReplaceAllString(name, " "))
	short := payeePrefixPattern.ReplaceAllString(collapsed, "")
	short = payeeStorePattern.ReplaceAllString(short, "")
	short = payeeSuffixPattern.ReplaceAllString(short, "")
	short = strings.Trim(short, " -*,.")
	if short == "" {
		return collapsed
	}
	return short
}
