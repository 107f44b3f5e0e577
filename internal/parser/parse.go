package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

func (p *Parser) Verbs() []string {
	return p.registry.Verbs()
}

func (p *Parser) Commands() []CommandDef {
	return p.registry.Commands()
}

func (p *Parser) Parse(ctx ParseContext, raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
		Confidence: 0,
	}
	if strings.TrimSpace(raw) == "?" {
		intent.Kind = Help
		intent.Verb = "help"
		intent.Normalised = "help"
		intent.Confidence = 0.97
		return intent
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command or intent."}
		return intent
	}

	tokens := tokenise(intent.Normalised)
	cmdMatch, alternates := p.registry.matchCommand(tokens)
	if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 || cmdMatch.Source == "lev" {
		// Free text wins over a typo match ("what is it worth" is not "wait").
		if inferred := inferFreeTextIntent(ctx, intent.Raw, intent.Normalised); inferred != nil {
			return *inferred
		}
		if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 {
			intent.Clarify = &ClarifyQuestion{
				Prompt: "I couldn't map that to a command. Try " + strings.Join(p.Verbs(), ", ") + ".",
			}
			return intent
		}
	}

	if len(alternates) > 0 && (cmdMatch.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		intent.Clarify = &ClarifyQuestion{
			Prompt: "Did you mean:",
			Options: []Intent{
				{
					Raw:        raw,
					Normalised: cmdMatch.Canonical,
					Kind:       commandKind(cmdMatch.Canonical),
					Verb:       cmdMatch.Canonical,
					Confidence: cmdMatch.Score,
				},
				{
					Raw:        raw,
					Normalised: alternates[0].Canonical,
					Kind:       commandKind(alternates[0].Canonical),
					Verb:       alternates[0].Canonical,
					Confidence: alternates[0].Score,
				},
			},
		}
		return intent
	}

	intent.Verb = cmdMatch.Canonical
	intent.Kind = commandKind(intent.Verb)
	intent.Confidence = clampScore(cmdMatch.Score)

	argsTokens := tokens
	if cmdMatch.Consumed > 0 && len(tokens) >= cmdMatch.Consumed {
		argsTokens = tokens[cmdMatch.Consumed:]
	}
	argsTokens = dropFillers(argsTokens)

	def, _ := p.registry.command(intent.Verb)
	resolved, clarify, argScore := p.resolveArgs(ctx, def, argsTokens)
	if clarify != nil {
		intent.Clarify = clarify
		intent.Confidence = 0.45
		return intent
	}
	intent.Args = resolved.args
	intent.Slot = resolved.slot
	intent.Confidence = clampScore((intent.Confidence * 0.75) + (argScore * 0.25))

	if intent.Kind == Command && len(intent.Args) < def.MinArgs {
		if options := buildPickOptions(ctx, def.Canonical, 5); len(options) > 0 {
			intent.Clarify = &ClarifyQuestion{
				Prompt:  fmt.Sprintf("What should I %s?", def.Canonical),
				Options: options,
			}
			intent.Confidence = 0.46
			return intent
		}
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("%s needs a slot number or a mushroom name.", def.Canonical)}
		intent.Confidence = 0.42
		return intent
	}

	if def.MaxArgs > 0 && len(intent.Args) > def.MaxArgs {
		intent.Args = append([]string(nil), intent.Args[:def.MaxArgs]...)
		intent.Confidence = clampScore(intent.Confidence - 0.05)
	}

	if intent.Confidence < 0.52 && intent.Clarify == nil {
		intent.Clarify = &ClarifyQuestion{Prompt: "I have low confidence in that parse. Please rephrase or pick a clearer command."}
	}
	return intent
}

func commandKind(verb string) IntentKind {
	switch verb {
	case "help":
		return Help
	case "look", "value":
		return Query
	default:
		return Command
	}
}

func dropFillers(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if isFiller(token) {
			continue
		}
		out = append(out, token)
	}
	return out
}

type resolvedArgs struct {
	args []string
	slot *int
}

func (p *Parser) resolveArgs(ctx ParseContext, def CommandDef, args []string) (resolvedArgs, *ClarifyQuestion, float64) {
	var out resolvedArgs
	if len(args) == 0 {
		return out, nil, 0.9
	}
	if def.Canonical != "pick" {
		out.args = append(out.args, args...)
		return out, nil, clampScore(0.9 - 0.02*float64(len(args)))
	}

	token := args[0]
	if idx, ok := parseSlotToken(token); ok {
		out.slot = &idx
		out.args = []string{strconv.Itoa(idx + 1)}
		return out, nil, 0.98
	}
	if isPronoun(token) {
		if strings.TrimSpace(ctx.LastEntity) == "" {
			return out, &ClarifyQuestion{Prompt: "What does that pronoun refer to?"}, 0.4
		}
		out.args = []string{normaliseInput(ctx.LastEntity)}
		return out, nil, 0.82
	}

	joined := strings.Join(args, " ")
	entity, confidence, tie := resolveSpecies(joined, ctx)
	if len(entity) == 0 && len(args) > 1 {
		joined = token
		entity, confidence, tie = resolveSpecies(joined, ctx)
	}
	if tie && len(entity) >= 2 {
		options := make([]Intent, 0, 2)
		for idx := 0; idx < 2; idx++ {
			options = append(options, Intent{
				Kind:       Command,
				Verb:       "pick",
				Args:       []string{entity[idx]},
				Confidence: confidence - float64(idx)*0.01,
			})
		}
		return out, &ClarifyQuestion{Prompt: "Did you mean:", Options: options}, 0.52
	}
	if len(entity) == 1 {
		out.args = []string{entity[0]}
		return out, nil, confidence
	}
	out.args = []string{joined}
	return out, nil, 0.86
}

func resolveSpecies(token string, ctx ParseContext) ([]string, float64, bool) {
	n := normaliseInput(token)
	if n == "" {
		return nil, 0, false
	}
	return bestMatches(n, mergeUnique(ctx.Board, nil))
}

func bestMatches(token string, all []string) ([]string, float64, bool) {
	if len(all) == 0 {
		return nil, 0, false
	}
	type scored struct {
		val   string
		score float64
	}

	results := make([]scored, 0, len(all))
	for _, cand := range all {
		score := 0.0
		switch {
		case token == cand:
			score = 1.0
		case strings.HasPrefix(cand, token) && len(token) >= 2:
			score = 0.9
		default:
			if len(token) < 3 {
				continue
			}
			dist := levenshtein.ComputeDistance(token, cand)
			if dist > levenshteinLimit(len(cand)) {
				continue
			}
			score = 0.72 - (0.08 * float64(dist))
		}
		results = append(results, scored{val: cand, score: clampScore(score)})
	}
	if len(results) == 0 {
		return nil, 0, false
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})

	best := results[0]
	tie := len(results) > 1 && (best.score-results[1].score) < 0.05 && results[1].score > 0.6
	if tie {
		return []string{best.val, results[1].val}, best.score, true
	}
	return []string{best.val}, best.score, false
}

func buildPickOptions(ctx ParseContext, verb string, maxOptions int) []Intent {
	if verb != "pick" {
		return nil
	}
	options := make([]Intent, 0, maxOptions)
	for _, species := range mergeUnique(ctx.Board, nil) {
		options = append(options, Intent{
			Kind:       Command,
			Verb:       verb,
			Args:       []string{species},
			Confidence: 0.88,
		})
		if len(options) >= maxOptions {
			break
		}
	}
	return options
}

func inferFreeTextIntent(ctx ParseContext, raw string, normalised string) *Intent {
	n := normalised
	makeIntent := func(kind IntentKind, verb string, args []string, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Kind:       kind,
			Verb:       verb,
			Args:       args,
			Confidence: clampScore(confidence),
		}
	}

	if containsAnyPhrase(n, "how much", "what is it worth", "whats it worth", "what s it worth", "what is my bag worth", "bag worth") {
		return makeIntent(Query, "value", nil, 0.88)
	}
	if containsAnyPhrase(n, "what do i have", "what have i got", "my bag", "my basket", "inventory") {
		return makeIntent(Query, "look", nil, 0.86)
	}
	if containsAnyPhrase(n, "let time pass", "pass time", "next turn", "end turn", "skip turn", "let them grow") {
		return makeIntent(Command, "advance", nil, 0.86)
	}
	if containsAnyPhrase(n, "sell everything", "sell it all", "sell all", "empty my bag", "go to market") {
		return makeIntent(Command, "sell", nil, 0.86)
	}
	if containsAnyPhrase(n, "new game", "start over", "play again", "try again") {
		return makeIntent(Command, "restart", nil, 0.86)
	}

	tokens := tokenise(n)
	if len(tokens) == 1 {
		if idx, ok := parseSlotToken(tokens[0]); ok {
			intent := makeIntent(Command, "pick", []string{strconv.Itoa(idx + 1)}, 0.8)
			intent.Slot = &idx
			return intent
		}
	}

	// A bare species name on the board is a pick.
	if entity, confidence, tie := resolveSpecies(strings.Join(dropFillers(tokens), " "), ctx); len(entity) == 1 && !tie && confidence >= 0.9 {
		return makeIntent(Command, "pick", entity, confidence*0.9)
	}
	return nil
}

func containsAnyPhrase(value string, phrases ...string) bool {
	for _, phrase := range phrases {
		if containsPhrase(value, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(value, phrase string) bool {
	p := normaliseInput(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+p+" ")
}

func mergeUnique(a, b []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(a)+len(b))
	add := func(list []string) {
		for _, v := range list {
			n := normaliseInput(v)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	add(a)
	add(b)
	return out
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func IntentToCommandString(intent Intent) string {
	verb := normaliseInput(intent.Verb)
	if verb == "" {
		return ""
	}
	args := make([]string, 0, len(intent.Args))
	for _, arg := range intent.Args {
		n := normaliseInput(arg)
		if n != "" {
			args = append(args, n)
		}
	}
	if len(args) == 0 {
		return verb
	}
	return verb + " " + strings.Join(args, " ")
}
