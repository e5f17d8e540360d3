package scanner

import "regexp"

// carrierPatterns are tried in order against whole-file content.
// block carriers hold multi-line bodies that split into per-line
// commands; attribute carriers hold exactly one.
var carrierPatterns = []struct {
	carrier Carrier
	re      *regexp.Regexp
	block   bool
}{
	{CarrierAttr, regexp.MustCompile(`_="([^"]*)"`), false},
	{CarrierAttr, regexp.MustCompile(`_='([^']*)'`), false},
	{CarrierData, regexp.MustCompile(`data-glossa="([^"]*)"`), false},
	{CarrierData, regexp.MustCompile(`data-glossa='([^']*)'`), false},
	{CarrierScript, regexp.MustCompile(`(?is)<script[^>]*type=["']?text/glossa["']?[^>]*>(.*?)</script>`), true},
	{CarrierTemplate, regexp.MustCompile(`(?s)\{%\s*glossa\s*%\}(.*?)\{%\s*endglossa\s*%\}`), true},
}
