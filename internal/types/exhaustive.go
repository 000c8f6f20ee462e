package types

import "sort"

// EnumCoverage tracks which variants of an enum-typed match scrutinee have
// been covered by case patterns.
type EnumCoverage struct {
	variants map[string]bool
	matched  map[string]bool
	wildcard bool
}

// NewEnumCoverage starts coverage tracking over the declared variants.
func NewEnumCoverage(variants []string) *EnumCoverage {
	vs := make(map[string]bool, len(variants))
	for _, v := range variants {
		vs[v] = true
	}
	return &EnumCoverage{
		variants: vs,
		matched:  make(map[string]bool),
	}
}

// MarkVariant records that a case pattern matched the named variant.
// Names that are not declared variants are ignored here; the checker
// reports them separately.
func (c *EnumCoverage) MarkVariant(name string) {
	if c.variants[name] {
		c.matched[name] = true
	}
}

// MarkWildcard records a catch-all case (a bare name pattern).
func (c *EnumCoverage) MarkWildcard() {
	c.wildcard = true
}

// IsVariant reports whether name is one of the declared variants.
func (c *EnumCoverage) IsVariant(name string) bool {
	return c.variants[name]
}

// Missing returns the declared variants no case covered, sorted, or nil
// when coverage is complete or a wildcard is present.
func (c *EnumCoverage) Missing() []string {
	if c.wildcard {
		return nil
	}

	missing := make([]string, 0)
	for v := range c.variants {
		if !c.matched[v] {
			missing = append(missing, v)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	sort.Strings(missing)
	return missing
}

// MaybeCoverage tracks null/non-null coverage for a Maybe-typed scrutinee.
type MaybeCoverage struct {
	HasNull    bool
	HasNonNull bool
}

// Complete reports whether both the null and the non-null case appear.
func (c *MaybeCoverage) Complete() bool {
	return c.HasNull && c.HasNonNull
}
