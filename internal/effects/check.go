package effects

import (
	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/position"
)

// CheckFunc validates a function's declared effect clause against its
// inferred usage. Undeclared usage is an error; declared-but-unused
// effects are warnings and declared-but-unused capabilities are info
// hints. The model tolerates over-declaration rather than risk false
// positives.
func CheckFunc(fn *core.Func, usage *Usage) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	declaredIO := hasString(fn.Effects, EffectIO)
	declaredCPU := hasString(fn.Effects, EffectCPU)

	if usage.HasIO() && !declaredIO {
		site, _ := usage.FirstSite(EffectIO)
		diags = append(diags, diagnostic.Errorf(diagnostic.CodeEffectUndeclaredIO,
			position.FirstReal(site.Span, fn.NameOrigin),
			"%s performs io through %q but does not declare the io effect", fn.Name, site.Target))
	}
	if usage.HasCPU() && !declaredCPU {
		site, _ := usage.FirstSite(EffectCPU)
		diags = append(diags, diagnostic.Errorf(diagnostic.CodeEffectUndeclaredCPU,
			position.FirstReal(site.Span, fn.NameOrigin),
			"%s performs cpu work through %q but does not declare the cpu effect", fn.Name, site.Target))
	}

	if declaredIO && !usage.HasIO() {
		diags = append(diags, diagnostic.Warnf(diagnostic.CodeEffectRedundant,
			fn.NameOrigin, "%s declares the io effect but never uses it", fn.Name))
	}
	if declaredCPU && !usage.HasCPU() {
		diags = append(diags, diagnostic.Warnf(diagnostic.CodeEffectRedundant,
			fn.NameOrigin, "%s declares the cpu effect but never uses it", fn.Name))
	}

	if fn.EffectCapsExplicit {
		diags = append(diags, checkCapabilities(fn, usage)...)
	}

	return diags
}

// checkCapabilities compares the explicit capability list against usage.
// An absent list is not the same as an empty one; callers only reach
// this when the clause was written in the source.
func checkCapabilities(fn *core.Func, usage *Usage) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	declared := make(map[Capability]bool, len(fn.EffectCaps))
	for _, c := range fn.EffectCaps {
		declared[Capability(c)] = true
	}

	used := usage.UsedCapabilities()
	usedSet := make(map[Capability]bool, len(used))
	for _, c := range used {
		usedSet[c] = true
		if declared[c] {
			continue
		}
		site := usage.SitesOf(c)[0]
		diags = append(diags, diagnostic.Errorf(diagnostic.CodeCapMissing,
			position.FirstReal(site.Span, fn.NameOrigin),
			"%s uses capability %s through %q without declaring it", fn.Name, c, site.Target))
	}

	for _, c := range fn.EffectCaps {
		if !usedSet[Capability(c)] {
			diags = append(diags, diagnostic.Infof(diagnostic.CodeCapSuperfluous,
				fn.NameOrigin, "%s declares capability %s but never uses it", fn.Name, c))
		}
	}

	return diags
}

// CheckDeclaredCapabilities validates the spelling of a declared
// capability list, suggesting close matches for typos.
func CheckDeclaredCapabilities(fn *core.Func) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	names := make([]string, len(Capabilities))
	for i, c := range Capabilities {
		names[i] = string(c)
	}

	for _, c := range fn.EffectCaps {
		if IsCapability(c) {
			continue
		}
		d := diagnostic.Errorf(diagnostic.CodeCapUnknown, fn.NameOrigin,
			"%s declares unknown capability %q", fn.Name, c)
		d.Suggestions = diagnostic.Suggest(c, names)
		diags = append(diags, d)
	}

	return diags
}

func hasString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
