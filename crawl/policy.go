package crawl

import "github.com/fwojciec/guidecrawl"

// StaticDepthLimit is the deepest level still tried without a browser.
// Deep pages on documentation sites are usually client-rendered.
const StaticDepthLimit = 2

// ChooseStrategy returns the fetch strategy for a page of platform found at
// depth.
func ChooseStrategy(platform *guidecrawl.Platform, depth int) guidecrawl.Strategy {
	if platform.Rendered || depth > StaticDepthLimit {
		return guidecrawl.StrategyDynamic
	}
	return guidecrawl.StrategyStatic
}
