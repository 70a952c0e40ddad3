package classify

// DefaultRules is the canonical ordered rule table. A rule matches when any
// keyword is a substring of the lowercased error text or any code equals the
// upstream HTTP status. The first matching rule wins; order matters because
// provider messages often contain overlapping keywords (a timeout wrapping a
// rate-limit description must still classify as rate-limited).
const DefaultRules = `
package llm_errors

import rego.v1

rules := [
	{
		"category": "service_unavailable",
		"status": 503,
		"message": "The assistant is temporarily unavailable. Please try again later.",
		"keywords": ["quota", "exhausted", "billing", "insufficient"],
		"codes": [402]
	},
	{
		"category": "config_error",
		"status": 503,
		"message": "The assistant is not configured correctly. Please contact support.",
		"keywords": ["api_key", "api key", "invalid key", "unauthorized", "authentication"],
		"codes": [401, 403]
	},
	{
		"category": "rate_limited",
		"status": 429,
		"message": "Too many requests right now. Please wait a moment and try again.",
		"keywords": ["rate", "limit", "too many"],
		"codes": [429]
	},
	{
		"category": "timeout",
		"status": 504,
		"message": "The request took too long. Please try again.",
		"keywords": ["timeout", "timed out", "etimedout", "econnreset"],
		"codes": [504, 408]
	},
	{
		"category": "service_unavailable",
		"status": 503,
		"message": "The assistant is temporarily unavailable. Please try again later.",
		"keywords": ["model", "not found", "unavailable"],
		"codes": [404]
	},
	{
		"category": "content_blocked",
		"status": 400,
		"message": "I can't respond to that. Please try a different question.",
		"keywords": ["safety", "blocked", "harmful", "policy"],
		"codes": []
	}
]

rule_matches(rule) if {
	some keyword in rule.keywords
	contains(input.message, keyword)
}

rule_matches(rule) if {
	some code in rule.codes
	code == input.status
}

matching contains index if {
	some index
	rule_matches(rules[index])
}

default decision := {
	"category": "internal",
	"status": 500,
	"message": "Something went wrong. Please try again."
}

decision := rules[min(matching)] if {
	count(matching) > 0
}
`
