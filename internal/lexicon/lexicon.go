// Package lexicon supplies the keyword and punctuation tables that drive
// the Clarity lexer. The grammar itself is fixed; a lexicon maps semantic
// keyword kinds to natural-language spellings so the same grammar carries
// multiple surface syntaxes. Lexicons also carry localized help text for
// diagnostic codes.
package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind identifies a semantic keyword independent of its surface spelling.
type Kind int

const (
	KindInvalid Kind = iota
	KindModule
	KindImport
	KindAs
	KindData
	KindEnum
	KindFunc   // introduces a function declaration ("To" in English)
	KindOf     // introduces an explicit type-parameter list
	KindEffect // introduces an effect-parameter list
	KindGives  // introduces the return type
	KindWith   // introduces an effect clause
	KindUsing  // introduces a capability list
	KindLet
	KindSet
	KindReturn
	KindIf
	KindElse
	KindMatch
	KindCase
	KindScope
	KindStart
	KindWait
	KindWorkflow
	KindRetry
	KindTimeout
	KindAwait
	KindNew
	KindNull
	KindTrue
	KindFalse
	KindNone
)

// kindNames are the stable names used in lexicon JSON files.
var kindNames = map[string]Kind{
	"module": KindModule, "import": KindImport, "as": KindAs,
	"data": KindData, "enum": KindEnum, "func": KindFunc,
	"of": KindOf, "effect": KindEffect, "gives": KindGives,
	"with": KindWith, "using": KindUsing,
	"let": KindLet, "set": KindSet, "return": KindReturn,
	"if": KindIf, "else": KindElse, "match": KindMatch, "case": KindCase,
	"scope": KindScope, "start": KindStart, "wait": KindWait,
	"workflow": KindWorkflow, "retry": KindRetry, "timeout": KindTimeout,
	"await": KindAwait, "new": KindNew, "null": KindNull,
	"true": KindTrue, "false": KindFalse, "none": KindNone,
}

func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// QuotePair is an open/close string-delimiter pair, for skins that quote
// with something other than ASCII double quotes (for example « »).
type QuotePair struct {
	Open  string
	Close string
}

// Lexicon is one natural-language skin over the Clarity grammar.
type Lexicon struct {
	Name         string
	Keywords     map[string]Kind // surface spelling -> semantic kind
	LineComments []string        // comment markers beyond the // and # fallbacks
	Quotes       []QuotePair     // string delimiters beyond the " fallback
	Help         map[string]string
}

// Keyword resolves a surface spelling to its semantic kind.
func (l *Lexicon) Keyword(spelling string) (Kind, bool) {
	k, ok := l.Keywords[spelling]
	return k, ok
}

// SpellingOf returns the surface spelling for a semantic kind, for use in
// diagnostic messages. Falls back to the kind's stable name.
func (l *Lexicon) SpellingOf(kind Kind) string {
	for spelling, k := range l.Keywords {
		if k == kind {
			return spelling
		}
	}
	return kind.String()
}

// HelpText returns localized help for a diagnostic code, or empty when the
// lexicon carries none.
func (l *Lexicon) HelpText(code string) string {
	return l.Help[code]
}

// English returns the built-in English lexicon.
func English() *Lexicon {
	return &Lexicon{
		Name: "en",
		Keywords: map[string]Kind{
			"Module":   KindModule,
			"Import":   KindImport,
			"as":       KindAs,
			"Data":     KindData,
			"Enum":     KindEnum,
			"To":       KindFunc,
			"of":       KindOf,
			"effects":  KindEffect,
			"gives":    KindGives,
			"with":     KindWith,
			"using":    KindUsing,
			"Let":      KindLet,
			"Set":      KindSet,
			"Return":   KindReturn,
			"If":       KindIf,
			"Else":     KindElse,
			"Match":    KindMatch,
			"Case":     KindCase,
			"Scope":    KindScope,
			"Start":    KindStart,
			"Wait":     KindWait,
			"Workflow": KindWorkflow,
			"retry":    KindRetry,
			"timeout":  KindTimeout,
			"Await":    KindAwait,
			"New":      KindNew,
			"null":     KindNull,
			"true":     KindTrue,
			"false":    KindFalse,
			"None":     KindNone,
		},
	}
}

// lexiconFile is the on-disk JSON shape of a lexicon.
type lexiconFile struct {
	Name     string            `json:"name"`
	Keywords map[string]string `json:"keywords"` // spelling -> kind name
	Comments []string          `json:"comments,omitempty"`
	Quotes   [][2]string       `json:"quotes,omitempty"`
	Help     map[string]string `json:"help,omitempty"`
}

// Load reads a lexicon from a JSON file. Unknown kind names are an error:
// a half-working skin would produce baffling parse failures downstream.
func Load(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}

	var lf lexiconFile
	if err := json.Unmarshal(raw, &lf); err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}

	lex := &Lexicon{
		Name:         lf.Name,
		Keywords:     make(map[string]Kind, len(lf.Keywords)),
		LineComments: lf.Comments,
		Help:         lf.Help,
	}

	for spelling, kindName := range lf.Keywords {
		kind, ok := kindNames[kindName]
		if !ok {
			return nil, fmt.Errorf("lexicon %s: unknown keyword kind %q for %q", path, kindName, spelling)
		}
		lex.Keywords[spelling] = kind
	}

	for _, q := range lf.Quotes {
		lex.Quotes = append(lex.Quotes, QuotePair{Open: q[0], Close: q[1]})
	}

	return lex, nil
}

// LoadOrDefault loads a lexicon and silently falls back to the built-in
// English table when the file is missing or malformed.
func LoadOrDefault(path string) *Lexicon {
	if path == "" {
		return English()
	}
	lex, err := Load(path)
	if err != nil {
		return English()
	}
	return lex
}
