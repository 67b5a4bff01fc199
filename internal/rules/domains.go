package rules

import (
	"sort"
	"strings"
)

const (
	exclusionMarker      = "~"
	wildcardDomain       = "*"
	minimumBareTLDLength = 2
	minimumDomainLength  = 4
)

// SortDomains orders domain tokens by base name, placing "~x" right after "x".
func SortDomains(domains []string) {
	sort.SliceStable(domains, func(left, right int) bool {
		return compareDomains(domains[left], domains[right]) < 0
	})
}

func compareDomains(left, right string) int {
	leftBase, leftExcluded := splitExclusion(left)
	rightBase, rightExcluded := splitExclusion(right)
	if comparison := strings.Compare(leftBase, rightBase); comparison != 0 {
		return comparison
	}
	switch {
	case leftExcluded == rightExcluded:
		return 0
	case rightExcluded:
		return -1
	default:
		return 1
	}
}

func splitExclusion(domain string) (string, bool) {
	base := strings.TrimLeft(domain, exclusionMarker)
	return base, len(base) != len(domain)
}

// IsValidDomainToken reports whether a cosmetic-rule domain token is usable.
func IsValidDomainToken(token string) bool {
	base, _ := splitExclusion(token)
	if base == wildcardDomain {
		return true
	}
	if strings.Contains(base, ".") {
		return len(base) >= minimumDomainLength
	}
	return len(base) >= minimumBareTLDLength
}

// uniqueSortedDomains drops empty tokens, sorts and removes duplicates.
func uniqueSortedDomains(domains []string) []string {
	result := make([]string, 0, len(domains))
	for _, domain := range domains {
		if domain != "" {
			result = append(result, domain)
		}
	}
	SortDomains(result)
	compacted := result[:0]
	for index, domain := range result {
		if index > 0 && domain == compacted[len(compacted)-1] {
			continue
		}
		compacted = append(compacted, domain)
	}
	return compacted
}

// domainDirection classifies a domain set as inclusion-only, exclusion-only or mixed.
type domainDirection int

const (
	directionInclusion domainDirection = iota
	directionExclusion
	directionMixed
)

func directionOf(domains []string) domainDirection {
	excludedCount := 0
	for _, domain := range domains {
		if strings.HasPrefix(domain, exclusionMarker) {
			excludedCount++
		}
	}
	switch excludedCount {
	case 0:
		return directionInclusion
	case len(domains):
		return directionExclusion
	default:
		return directionMixed
	}
}
