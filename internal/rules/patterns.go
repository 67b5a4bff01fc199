// Package rules classifies and canonicalizes individual filter-list rules and
// merges rules that differ only by domain scope.
package rules

import "regexp"

var (
	// FilterDomainPattern captures the domain= value of a network rule.
	FilterDomainPattern = regexp.MustCompile(`\$(?:[^,]*,)*domain=([^,]+)`)
	// ElementDomainPattern captures the domain list of a cosmetic rule.
	ElementDomainPattern = regexp.MustCompile(`^([^/|@"!]*?)#[@?$%]?#`)
	// StandardElementDomainPattern matches the domain list and a ## or #@# separator.
	StandardElementDomainPattern = regexp.MustCompile(`^[^/|@"!]*?#@?#`)

	elementPattern         = regexp.MustCompile(`^([^/|@"!]*?)(##|#@#|#\?#|#@\?#|#\$#|#@\$#|#%#|#@%#)(.+)$`)
	standardElementPattern = regexp.MustCompile(`^([^/|@"!]*?)(#[@?$%]?#|#@[$%?]#)([^{}]+)$`)
	regexElementPattern    = regexp.MustCompile(`^(/[^#]+/)(##|#@#|#\?#|#@\?#|#\$#|#@\$#|#%#|#@%#)(.+)$`)

	optionPattern          = regexp.MustCompile(`^(.*)\$(~?[\w\-]+(?:=[^,\s]+)?(?:,~?[\w\-]+(?:=[^,\s]+)?)*)$`)
	pseudoClassPattern     = regexp.MustCompile(`:[a-zA-Z\-]*[A-Z][a-zA-Z\-]*`)
	universalTagPattern    = regexp.MustCompile(`([>+~,@\s])(\*)([#.\[:])`)
	combinatorPattern      = regexp.MustCompile(`(\\.|[^+>~ \t])\s*([+>~ \t])\s*(\D)`)
	unicodeSelectorPattern = regexp.MustCompile(`\\[0-9a-fA-F]{1,6}\s[a-zA-Z]*[A-Z]`)
	quotedStringPattern    = regexp.MustCompile(`\\.|"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`)
	networkDomainPattern   = regexp.MustCompile(`^\|*([^/\^\$]+)`)
	ipAddressPattern       = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)
	hasTextPattern         = regexp.MustCompile(`^(.+?):(has-text|-?abp-contains)\((.+)\)$`)
	cosmeticMarkerPattern  = regexp.MustCompile(`#@?[$%?]?\??#|\$@?\$`)
	extendedPseudoPattern  = regexp.MustCompile(`:(?:remove[a-z\-]*|matches-[a-z\-]+|-abp-[a-z\-]+)\(`)
)

// skippedSchemes prefix network rules that are never checked for a dotted domain.
var skippedSchemes = []string{"|javascript", "|data:", "|dddata:", "|about:", "|blob:", "|http"}

// extensionSeparators are the cosmetic separators whose selectors are never rewritten.
var extensionSeparators = map[string]struct{}{
	"#$#":  {},
	"#@$#": {},
	"#%#":  {},
	"#@%#": {},
}

var extendedSelectorPrefixes = []string{"+js(", "^", "//scriptlet("}

var extendedSelectorMarkers = []string{
	":style(",
	":has-text(",
	":has(",
	":upward(",
	":xpath(",
	":watch-attr(",
	":min-text-length(",
	":others(",
	"{",
}

var knownOptions = map[string]struct{}{
	"collapse": {}, "csp": {}, "document": {}, "elemhide": {}, "font": {}, "genericblock": {},
	"generichide": {}, "image": {}, "match-case": {}, "media": {}, "object-subrequest": {},
	"object": {}, "other": {}, "ping": {}, "popup": {}, "script": {}, "stylesheet": {},
	"subdocument": {}, "third-party": {}, "webrtc": {}, "websocket": {}, "xmlhttprequest": {},
	"xhr": {}, "css": {}, "1p": {}, "3p": {}, "frame": {}, "doc": {}, "ghide": {}, "xml": {},
	"iframe": {}, "first-party": {}, "strict1p": {}, "strict3p": {}, "ehide": {}, "shide": {},
	"specifichide": {}, "all": {}, "badfilter": {}, "important": {}, "popunder": {}, "empty": {},
	"cname": {}, "inline-script": {}, "removeparam": {}, "redirect-rule": {}, "_____": {},
	"-----": {}, "network": {}, "content": {}, "extension": {}, "jsinject": {}, "stealth": {},
	"cookie": {},
	"csp=frame-src": {}, "csp=img-src": {}, "csp=media-src": {}, "csp=script-src": {},
	"csp=worker-src": {},
	"rewrite=abp-resource:1x1-transparent-gif":  {},
	"rewrite=abp-resource:2x2-transparent-png":  {},
	"rewrite=abp-resource:32x32-transparent-png": {},
	"rewrite=abp-resource:3x2-transparent-png":  {},
	"rewrite=abp-resource:blank-css":            {},
	"rewrite=abp-resource:blank-html":           {},
	"rewrite=abp-resource:blank-js":             {},
	"rewrite=abp-resource:blank-mp3":            {},
	"rewrite=abp-resource:blank-mp4":            {},
	"rewrite=abp-resource:blank-text":           {},
}

var knownOptionPrefixes = []string{
	"csp=", "redirect=", "redirect-rule=", "rewrite=", "replace=", "header=", "permissions=",
	"to=", "from=", "ipaddress=", "method=", "denyallow=", "removeparam=", "urltransform=",
	"responseheader=", "sitekey=", "app=", "urlskip=", "uritransform=", "reason=", "addheader=",
	"referrerpolicy=", "cookie=", "removeheader=", "jsonprune=", "stealth=",
}

// uboOptionConversions maps uBlock Origin aliases to Adblock Plus option names.
var uboOptionConversions = map[string]string{
	"xhr":     "xmlhttprequest",
	"~xhr":    "~xmlhttprequest",
	"css":     "stylesheet",
	"~css":    "~stylesheet",
	"1p":      "~third-party",
	"~1p":     "third-party",
	"3p":      "third-party",
	"~3p":     "~third-party",
	"frame":   "subdocument",
	"~frame":  "~subdocument",
	"doc":     "document",
	"ghide":   "generichide",
	"xml":     "xmlhttprequest",
	"~xml":    "~xmlhttprequest",
	"iframe":  "subdocument",
	"~iframe": "~subdocument",
}

const (
	unknownOptionWarningFormat  = `Warning: The option "%s" used on the filter "%s" is not recognised by FOP`
	invalidDomainsWarningFormat = "Removed invalid domain(s) from cosmetic rule: %s | Rule: %s%s%s"
)

// Warning formats for lines the section driver drops after classification.
const (
	InvalidLocalhostWarningFormat = "Removed invalid localhost entry: %s"
	UndottedDomainWarningFormat   = "Skipped network rule without dot in domain: %s (domain: %s)"
	TopLevelDomainWarningFormat   = "Removed overly broad TLD-only rule: %s"
)
