package rag

import "regexp"

// Control tokens the model is instructed to emit. The prompt instructions
// and the parser both reference these constants so the grammar cannot
// drift between composition and parsing.
const (
	// TokenConfirmDonate marks an explicit confirmation to donate.
	TokenConfirmDonate = "[INTENT:CONFIRM_DONATE]"

	// TokenShowDetails marks a request for cause details. It is followed
	// by a URL token carrying the detail page path.
	TokenShowDetails = "[INTENT:SHOW_DETAILS]"
)

// urlTokenPattern extracts the path from a "[URL:...]" token.
var urlTokenPattern = regexp.MustCompile(`\[URL:([^\]]*)\]`)
