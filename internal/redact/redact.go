// Package redact removes identifiable fields from free-text patient
// records before any text reaches the reasoning backend. Matched fields
// are replaced with stable bracketed placeholder tokens so downstream
// prompts can be instructed to never echo them back.
//
// The patterns are heuristic (the two-capitalized-word name rule will
// both over- and under-redact) and that is a documented limitation of
// the approach, not a defect. Unmatched text passes through untouched;
// redaction is a total function and never fails.
package redact

import "regexp"

// Placeholder tokens, one per identifier category.
const (
	TokenName    = "[NAME]"
	TokenDate    = "[DATE]"
	TokenPhone   = "[PHONE]"
	TokenEmail   = "[EMAIL]"
	TokenSSN     = "[SSN]"
	TokenMRN     = "[MRN]"
	TokenAddress = "[ADDRESS]"
	TokenZIP     = "[ZIP]"
)

var (
	reMRN = regexp.MustCompile(`(?i)\b(MRN|Medical Record Number|Record #|Patient ID)[:\s]*[A-Z0-9-]+\b`)

	// Street addresses only; city and state survive for demographics.
	// The suffix must stand alone as a word so "94110 last year" is not
	// consumed as "... la"+"st".
	reAddress = regexp.MustCompile(`(?i)\b\d+\s+(?:[A-Za-z]+\s+)+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct)\b`)

	// Honorific plus one or two capitalized name words, then the naive
	// First Last heuristic.
	reHonorific = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr)\.\s+[A-Z][a-z]+(?: [A-Z][a-z]+)?\b`)
	reFullName  = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)

	// Numeric dates keep the year so age can still be inferred
	// downstream: MM/DD/YYYY becomes [DATE]/YYYY.
	reNumericDate   = regexp.MustCompile(`\b(0?[1-9]|1[0-2])/(0?[1-9]|[12][0-9]|3[01])/(\d{4})\b`)
	reMonthNameDate = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)

	rePhone = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b|\(\d{3}\)\s*\d{3}[-.]?\d{4}`)
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	reSSN   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	reZIP   = regexp.MustCompile(`\b\d{5}(-\d{4})?\b`)
)

// Redact replaces every recognized identifier in text with its category
// placeholder. Order matters: MRN labels ("Medical Record Number",
// "Patient ID") and street addresses ("Main Street") contain capitalized
// word pairs, so they must be redacted before the name heuristic runs.
// SSNs are redacted before ZIP codes so the five-digit rule cannot split
// them.
func Redact(text string) string {
	out := reMRN.ReplaceAllString(text, TokenMRN)
	out = reAddress.ReplaceAllString(out, TokenAddress)
	out = reHonorific.ReplaceAllString(out, TokenName)
	out = reFullName.ReplaceAllString(out, TokenName)
	out = reNumericDate.ReplaceAllString(out, TokenDate+"/${3}")
	out = reMonthNameDate.ReplaceAllString(out, TokenDate)
	out = rePhone.ReplaceAllString(out, TokenPhone)
	out = reEmail.ReplaceAllString(out, TokenEmail)
	out = reSSN.ReplaceAllString(out, TokenSSN)
	out = reZIP.ReplaceAllString(out, TokenZIP)
	return out
}
