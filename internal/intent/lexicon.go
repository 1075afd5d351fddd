// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import (
	"regexp"

	"github.com/pdiddy/websearch/pkg/types"
)

// lexicon holds the keywords and patterns scored for each intent. Entries
// are data only; the scoring rules live in classifier.go. Duplicate keywords
// are intentional and score once per occurrence.
var lexicon = map[types.Intent]rule{
	types.IntentRich: {
		keywords: []string{
			"bitcoin", "btc", "ethereum", "eth", "crypto", "cryptocurrency", "dogecoin", "litecoin",
			"ripple", "xrp", "cardano", "ada", "solana", "sol", "polygon", "matic", "stock", "stocks",
			"share", "shares", "nasdaq", "dow", "s&p", "market cap", "ticker", "trading", "dividend",
			"portfolio", "currency", "exchange rate", "forex", "usd", "eur", "gbp", "jpy", "cad", "aud",
			"dollar", "euro", "pound", "yen", "conversion", "convert", "weather", "temperature", "forecast",
			"rain", "snow", "sunny", "cloudy", "humidity", "wind", "storm", "hurricane", "celsius",
			"fahrenheit", "calculator", "calculate", "compute", "convert", "conversion", "unit",
			"miles to km", "kg to lbs", "feet to meters", "gallons to liters", "time", "timezone",
			"current time", "time in", "date", "calendar", "score", "game", "match", "live score",
			"standings", "league table", "price", "cost", "value", "worth", "how much", "pricing", "rate",
		},
		patterns: compile(
			`what(?:'s| is) (?:the )?(?:current |latest |today's )?price`,
			`how much (?:is|does|do|are|cost|costs)`,
			`price of`,
			`cost of`,
			`(?:bitcoin|btc|ethereum|eth|crypto|cryptocurrency|dogecoin|doge|solana|sol|cardano|ada) (?:price|value|worth|cost)`,
			`(?:btc|eth|doge|sol|ada|xrp)/(?:usd|eur|gbp)`,
			`(?:stock|share) price`,
			`(?:nasdaq|dow|s&p|nyse) (?:today|now|current)`,
			`ticker (?:symbol )?[A-Z]{1,5}`,
			`weather (?:in|at|for)`,
			`(?:temperature|forecast) (?:in|at|for)`,
			`(?:will it|is it going to) (?:rain|snow)`,
			`convert \d+`,
			`\d+ (?:usd|eur|gbp|jpy|cad|aud) to (?:usd|eur|gbp|jpy|cad|aud)`,
			`exchange rate`,
			`calculate`,
			`\d+ (?:\+|\-|\*|/|plus|minus|times|divided by) \d+`,
			`what time is it in`,
			`current time in`,
			`time zone`,
			`(?:live )?(?:score|game|match) (?:of|for|between)`,
			`who(?:'s| is) winning`,
		),
	},
	types.IntentNews: {
		keywords: []string{
			"news", "breaking", "latest", "recent", "update", "updates", "headline", "headlines", "report",
			"reported", "reporting", "announcement", "announced", "breaking news", "today", "yesterday",
			"this week", "this month", "currently", "now", "just now", "moments ago", "hours ago",
			"days ago", "happened", "happening", "occurred", "event", "incident", "situation",
			"development", "story", "coverage", "according to", "sources say", "reports indicate",
			"confirmed", "election", "politics", "government", "president", "congress", "senate",
			"conflict", "war", "peace", "treaty", "agreement", "scandal", "controversy",
		},
		patterns: compile(
			`(?:latest|breaking|recent) news`,
			`news (?:about|on|regarding)`,
			`what happened`,
			`what's happening`,
			`(?:today's|yesterday's|this week's) (?:news|headlines|top stories)`,
			`breaking:`,
			`just (?:announced|reported|confirmed)`,
			`(?:recent|latest) (?:update|development|event)`,
			`(?:election|vote|voting) (?:results|news|update)`,
			`(?:war|conflict|crisis) in`,
		),
	},
	types.IntentVideo: {
		keywords: []string{
			"video", "youtube", "vimeo", "tiktok", "instagram reels", "shorts", "movie", "movies", "film",
			"films", "cinema", "theater", "theatre", "show", "series", "tv show", "television", "episode",
			"season", "documentary", "docuseries", "watch", "stream", "streaming", "netflix", "hulu",
			"disney+", "disney plus", "amazon prime", "hbo", "hbo max", "apple tv", "paramount+", "trailer",
			"teaser", "clip", "scene", "preview", "promo", "review", "reaction", "analysis", "breakdown",
			"tutorial", "how to", "guide", "walkthrough", "demonstration", "demo", "lesson", "course",
			"learn", "learning", "comedy", "funny", "hilarious", "sketch", "standup", "stand-up",
			"music video", "concert", "performance", "live performance", "disney", "pixar", "marvel", "dc",
			"warner bros", "universal", "star wars", "harry potter", "lord of the rings",
		},
		patterns: compile(
			`(?:watch|stream|find) (?:the )?(?:movie|film|video|show|series)`,
			`(?:movie|film) (?:trailer|review|clip|scene)`,
			`how to .+(?:video|tutorial)`,
			`(?:disney|marvel|dc|netflix|hulu) (?:movie|show|series)`,
			`(?:latest|new|upcoming) (?:movie|film|show|series)`,
			`(?:best|top) (?:\d+ )?(?:movies|films|shows|series)`,
			`(?:full )?(?:movie|episode|season) (?:online|free|hd)`,
			`(?:youtube|vimeo|tiktok) video`,
			`music video (?:of|for|by)`,
			`(?:funny|comedy|hilarious) (?:video|clip)`,
			`tutorial (?:on|for|about)`,
		),
	},
	types.IntentImage: {
		keywords: []string{
			"image", "images", "picture", "pictures", "photo", "photos", "photograph", "pic", "pics",
			"snapshot", "shot", "logo", "icon", "symbol", "emblem", "badge", "avatar", "wallpaper",
			"background", "backdrop", "banner", "header", "screenshot", "screen capture", "screengrab",
			"graphic", "illustration", "drawing", "artwork", "art", "diagram", "chart", "graph",
			"infographic", "visualization", "map", "blueprint", "sketch", "design", "look like",
			"looks like", "appearance", "visual", "visually", "show me", "display", "view", "see",
			"gallery", "album", "collection", "portfolio", "high resolution", "hd", "4k", "quality",
			"thumbnail", "preview",
		},
		patterns: compile(
			`(?:show|find|get|search) (?:me )?(?:images?|pictures?|photos?)`,
			`(?:images?|pictures?|photos?) of`,
			`what does .+ look like`,
			`(?:logo|icon|symbol) (?:of|for)`,
			`picture of`,
			`(?:wallpaper|background) (?:for|of)`,
			`(?:diagram|chart|graph|infographic) (?:of|for|showing)`,
			`(?:screenshot|screen capture) of`,
			`(?:high resolution|hd|4k) (?:image|picture|photo)`,
			`(?:gallery|album|collection) of`,
		),
	},
	types.IntentWeb: {
		keywords: []string{
			"what", "who", "where", "when", "why", "how", "which", "whose", "define", "definition",
			"meaning", "explain", "explanation", "describe", "description", "tell me", "information",
			"info", "about", "regarding", "concerning", "learn", "understand", "know", "find out",
			"discover", "compare", "comparison", "difference", "versus", "vs", "better", "best", "worst",
			"pros and cons", "list", "examples", "types", "kinds", "categories",
		},
		patterns: compile(
			`^(?:what|who|where|when|why|how|which)`,
			`(?:define|definition of|meaning of)`,
			`(?:explain|describe|tell me about)`,
			`(?:how (?:do|does|did|can|could|would|should))`,
			`(?:what (?:is|are|was|were))`,
			`(?:who (?:is|are|was|were))`,
			`(?:difference between|compare)`,
			`(?:best|top|worst) .+(?:for|to)`,
			`(?:list of|examples of)`,
			`.*`,
		),
	},
}

// explanations describe each intent for the classify command and debug logs.
var explanations = map[types.Intent]string{
	types.IntentRich:  "Real-time data query (prices, weather, calculations, or structured data)",
	types.IntentNews:  "Current events or breaking news query",
	types.IntentVideo: "Video content query (movies, shows, or tutorials)",
	types.IntentImage: "Visual content query (pictures, photos, or graphics)",
	types.IntentWeb:   "General information query",
}

// compile builds case-insensitive patterns, panicking on a malformed entry
// at package init.
func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile("(?i)" + e)
	}
	return out
}
