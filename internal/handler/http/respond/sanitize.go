package respond

import "regexp"

// redaction replaces every match of pattern with replacement.
type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order: the Anthropic rule must run before the generic sk- rule.
var redactions = []redaction{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`hf_[a-zA-Z0-9]{10,}`), "hf_****"},
	{regexp.MustCompile(`Bearer [A-Za-z0-9\-_.]+`), "Bearer ****"},
	{regexp.MustCompile(`://([^:/@]+):([^@]+)@`), "://$1:****@"},
}

// SanitizeError returns err's message with provider keys, bearer tokens and DSN
// passwords masked. Summarizer and database errors pass through here before they
// are logged.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, r := range redactions {
		msg = r.pattern.ReplaceAllString(msg, r.replacement)
	}
	return msg
}
