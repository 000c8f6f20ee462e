// Package main provides the clarity command line tool: it checks
// Clarity modules and dumps token streams for grammar debugging.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/clarity-lang/clarity/internal/checker"
	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/effects"
	"github.com/clarity-lang/clarity/internal/lexer"
	"github.com/clarity-lang/clarity/internal/lexicon"
	"github.com/clarity-lang/clarity/internal/modules"
	"github.com/clarity-lang/clarity/internal/parser"
	"github.com/clarity-lang/clarity/internal/position"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	switch sub {
	case "help", "-h", "--help":
		usage()
	case "version", "-v", "--version":
		fmt.Printf("clarity language %s\n", modules.LanguageVersion)
	case "check":
		os.Exit(runCheck(args))
	case "tokens":
		os.Exit(runTokens(args))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", sub)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`clarity - controlled natural language compiler frontend

Usage:
  clarity check [flags] <file.src>...   type, effect, and async checks
  clarity tokens [flags] <file.src>     dump the token stream
  clarity version                       print the language version

Check flags:
  -paths         comma-separated module search paths
  -manifest      clarity.json project manifest
  -capabilities  capability manifest JSON (overrides the project manifest's)
  -effects       JSON effect-pattern config
  -lexicon       lexicon file for an alternate surface syntax
  -jobs          parallel file checks (default: GOMAXPROCS)`)
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	pathsFlag := fs.String("paths", "", "comma-separated module search paths")
	manifestFlag := fs.String("manifest", "", "clarity.json project manifest")
	capsFlag := fs.String("capabilities", "", "capability manifest JSON")
	effectsFlag := fs.String("effects", "", "JSON effect-pattern config")
	lexiconFlag := fs.String("lexicon", "", "lexicon file")
	jobs := fs.Int("jobs", runtime.GOMAXPROCS(0), "parallel file checks")
	fs.Parse(args)

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "check: no input files")
		return 1
	}

	searchPaths := splitPaths(*pathsFlag)

	var capManifest *effects.Manifest
	if *manifestFlag != "" {
		project, err := modules.LoadProjectManifest(*manifestFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			return 1
		}
		if err := project.CheckLanguageVersion(); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			return 1
		}
		base := filepath.Dir(*manifestFlag)
		for _, p := range project.SearchPaths {
			searchPaths = append(searchPaths, filepath.Join(base, p))
		}
		capManifest = project.Capabilities
		if *effectsFlag == "" && project.EffectsConfig != "" {
			*effectsFlag = filepath.Join(base, project.EffectsConfig)
		}
	}

	if *capsFlag != "" {
		m, err := effects.LoadManifest(*capsFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			return 1
		}
		capManifest = m
	}

	lex := lexicon.LoadOrDefault(*lexiconFlag)
	store := modules.NewStore()

	opts := checker.Options{
		Store:       store,
		SearchPaths: searchPaths,
		Lexicon:     lex,
	}
	if *effectsFlag != "" {
		opts.Config = &checker.Config{EffectsConfigPath: *effectsFlag}
	}

	type result struct {
		file   string
		engine *diagnostic.Engine
		source *position.SourceFile
		err    error
	}
	results := make([]result, len(files))

	var group errgroup.Group
	group.SetLimit(*jobs)
	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			engine, source, err := checkFile(file, capManifest, opts)
			results[i] = result{file: file, engine: engine, source: source, err: err}
			return nil
		})
	}
	group.Wait()

	exit := 0
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.file, r.err)
			exit = 1
			continue
		}
		for _, d := range r.engine.Diagnostics() {
			fmt.Println(d)
			if excerpt := r.source.Excerpt(d.Span); excerpt != "" {
				for _, line := range strings.Split(excerpt, "\n") {
					fmt.Println("  " + line)
				}
			}
		}
		if r.engine.HasErrors() {
			exit = 1
		}
	}
	return exit
}

func checkFile(file string, manifest *effects.Manifest, opts checker.Options) (*diagnostic.Engine, *position.SourceFile, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}
	opts.DocumentURI = file

	tokens, err := lexer.LexFile(string(source), opts.Lexicon, file)
	if err != nil {
		return nil, nil, err
	}

	astModule, parseDiags := parser.Parse(tokens)
	module := core.LowerModule(astModule)

	engine := diagnostic.NewEngine()
	engine.AddAll(parseDiags)
	engine.AddAll(checker.CheckModuleWithCapabilities(module, manifest, opts))
	engine.Sort()
	return engine, position.NewSourceFile(file, string(source)), nil
}

func runTokens(args []string) int {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	lexiconFlag := fs.String("lexicon", "", "lexicon file")
	trivia := fs.Bool("trivia", false, "include comment tokens")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "tokens: exactly one input file required")
		return 1
	}
	file := fs.Arg(0)

	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokens: %v\n", err)
		return 1
	}

	tokens, err := lexer.LexFile(string(source), lexicon.LoadOrDefault(*lexiconFlag), file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokens: %v\n", err)
		return 1
	}

	for _, tok := range tokens {
		if tok.Channel == lexer.ChannelTrivia && !*trivia {
			continue
		}
		fmt.Printf("%s\t%s\t%q\n", tok.Span.Start, tok.Type, tok.Value)
	}
	return 0
}

func splitPaths(flagValue string) []string {
	if flagValue == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(flagValue, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
