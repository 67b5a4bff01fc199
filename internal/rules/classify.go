package rules

import (
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

// Kind identifies what a filter-list line is.
type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindSectionHeader
	KindDirective
	// KindShort is a content line too short to be a rule.
	KindShort
	// KindModifier is an AdGuard "[$...]" modifier rule, kept verbatim.
	KindModifier
	// KindRegexElement is a cosmetic rule scoped by a /regex/ domain, kept verbatim.
	KindRegexElement
	KindElement
	KindNetwork
	KindLocalhost
	KindInvalidLocalhost
	// KindUndottedDomain is an anchored network rule whose domain has no dot.
	KindUndottedDomain
	// KindTopLevelDomain is a network rule blocking a whole top-level domain.
	KindTopLevelDomain
)

const (
	includeDirective     = "%include"
	minimumRuleLength    = 3
	modifierPrefix       = "[$"
	localhostCommentChar = "#"
)

var localhostAddresses = map[netip.Addr]struct{}{
	netip.MustParseAddr("0.0.0.0"):   {},
	netip.MustParseAddr("127.0.0.1"): {},
}

// ClassifierOptions holds the flags that change how lines are classified.
type ClassifierOptions struct {
	CommentCharacters []string
	Localhost         bool
	AltSort           bool
	IgnoreDotDomains  bool
}

// Line is one classified, trimmed line.
type Line struct {
	Kind Kind
	Text string

	// Element rules.
	Domains   string
	Separator string
	Selector  string

	// Localhost entries.
	Address netip.Addr
	Host    string

	// Undotted network rules.
	Domain string
}

// IsBoundary reports whether the line ends the current section.
func (line Line) IsBoundary() bool {
	switch line.Kind {
	case KindComment, KindSectionHeader, KindDirective:
		return true
	default:
		return false
	}
}

// Classify trims and classifies one line.
func Classify(rawLine string, options ClassifierOptions) Line {
	text := strings.TrimSpace(rawLine)
	line := Line{Text: text}

	switch {
	case text == "":
		line.Kind = KindBlank
		return line
	case isComment(text, options):
		line.Kind = KindComment
		return line
	case strings.HasPrefix(text, includeDirective):
		line.Kind = KindDirective
		return line
	case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") && !strings.HasPrefix(text, modifierPrefix):
		line.Kind = KindSectionHeader
		return line
	}

	if options.Localhost {
		address, host, valid := ParseLocalhostEntry(text)
		if !valid {
			line.Kind = KindInvalidLocalhost
			return line
		}
		line.Kind = KindLocalhost
		line.Address = address
		line.Host = host
		return line
	}

	if len(text) < minimumRuleLength {
		line.Kind = KindShort
		return line
	}
	if strings.HasPrefix(text, modifierPrefix) {
		line.Kind = KindModifier
		return line
	}
	if regexElementPattern.MatchString(text) {
		line.Kind = KindRegexElement
		return line
	}

	activeElementPattern := standardElementPattern
	if options.AltSort {
		activeElementPattern = elementPattern
	}
	if match := activeElementPattern.FindStringSubmatch(text); match != nil {
		line.Kind = KindElement
		line.Domains = match[1]
		line.Separator = match[2]
		line.Selector = match[3]
		return line
	}

	if domain, undotted := undottedNetworkDomain(text, options.IgnoreDotDomains); undotted {
		line.Kind = KindUndottedDomain
		line.Domain = domain
		return line
	}
	if IsTopLevelDomainOnly(text) {
		line.Kind = KindTopLevelDomain
		return line
	}
	line.Kind = KindNetwork
	return line
}

func isComment(text string, options ClassifierOptions) bool {
	for _, commentCharacter := range options.CommentCharacters {
		if commentCharacter != "" && strings.HasPrefix(text, commentCharacter) {
			return true
		}
	}
	return options.Localhost && strings.HasPrefix(text, localhostCommentChar)
}

// ParseLocalhostEntry parses "0.0.0.0 host" or "127.0.0.1 host".
func ParseLocalhostEntry(text string) (netip.Addr, string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return netip.Addr{}, "", false
	}
	address, parseError := netip.ParseAddr(fields[0])
	if parseError != nil {
		return netip.Addr{}, "", false
	}
	if _, allowed := localhostAddresses[address]; !allowed {
		return netip.Addr{}, "", false
	}
	host := fields[1]
	if _, valid := dns.IsDomainName(host); !valid {
		return netip.Addr{}, "", false
	}
	return address, host, true
}

// undottedNetworkDomain reports anchored network rules whose domain lacks a dot.
func undottedNetworkDomain(text string, ignoreDotDomains bool) (string, bool) {
	if ignoreDotDomains || !strings.HasPrefix(text, "|") {
		return "", false
	}
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(text, scheme) {
			return "", false
		}
	}
	match := networkDomainPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	domain := match[1]
	if ipAddressPattern.MatchString(domain) || strings.ContainsAny(domain, ".[*~") {
		return "", false
	}
	return domain, true
}

// IsTopLevelDomainOnly reports rules like "||.com^" that block every site under a TLD.
func IsTopLevelDomainOnly(text string) bool {
	candidate := text
	if strings.HasPrefix(candidate, "||") {
		candidate = candidate[2:]
	} else {
		candidate = strings.TrimPrefix(candidate, "|")
	}
	if !strings.HasPrefix(candidate, ".") {
		return false
	}
	candidate = strings.TrimSuffix(candidate[1:], "^")
	if len(candidate) < 2 {
		return false
	}
	for index := 0; index < len(candidate); index++ {
		if candidate[index] < 'a' || candidate[index] > 'z' {
			return false
		}
	}
	return true
}
