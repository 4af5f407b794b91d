package predicate

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/txcheck/txcheck/pkg/ruleexpr"
	"github.com/txcheck/txcheck/pkg/util"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// prohibitedChars are never allowed in free text identifiers such as line
// names.
const prohibitedChars = `,[]{}^=@:;#$£?%+<>«»\/|~_¬`

var dateTokenLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

var regexCache sync.Map

func compileRegex(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	regexCache.Store(pattern, compiled)

	return compiled, nil
}

func registerValuePredicates(pc *Context, table ruleexpr.FunctionTable) {
	table["bool"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		if len(args) != 1 {
			return ruleexpr.Value{}, fmt.Errorf("bool() takes 1 argument")
		}

		return ruleexpr.BoolValue(args[0].AsBool()), nil
	}

	table["date"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		text, err := stringArg("date", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}

		parsed, ok := xmldoc.ParseDateTime(text)
		if !ok {
			return ruleexpr.Value{}, fmt.Errorf("date() cannot parse %q", text)
		}

		return ruleexpr.NumberValue(float64(parsed.Unix())), nil
	}

	table["days"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		if len(args) != 1 {
			return ruleexpr.Value{}, fmt.Errorf("days() takes 1 argument")
		}

		days, ok := args[0].AsNumber()
		if !ok {
			return ruleexpr.Value{}, fmt.Errorf("days() needs a number")
		}

		return ruleexpr.NumberValue(days * 86400), nil
	}

	table["today"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		if len(args) != 0 {
			return ruleexpr.Value{}, fmt.Errorf("today() takes no arguments")
		}

		now := pc.Now.UTC()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		return ruleexpr.NumberValue(float64(midnight.Unix())), nil
	}

	table["in"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		if len(args) < 2 {
			return ruleexpr.Value{}, fmt.Errorf("in() needs a value and at least one candidate")
		}

		needle := args[0].AsString()
		for _, candidate := range args[1:] {
			if candidate.AsString() == needle {
				return ruleexpr.BoolValue(true), nil
			}
		}

		return ruleexpr.BoolValue(false), nil
	}

	table["regex"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		text, err := stringArg("regex", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}

		pattern, err := stringArg("regex", args, 1)
		if err != nil {
			return ruleexpr.Value{}, err
		}

		compiled, err := compileRegex(pattern)
		if err != nil {
			return ruleexpr.Value{}, err
		}

		return ruleexpr.BoolValue(compiled.MatchString(strings.TrimSpace(text))), nil
	}

	table["strip"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		text, err := stringArg("strip", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}

		return ruleexpr.StringValue(strings.TrimSpace(text)), nil
	}

	table["has_name"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		node, err := nodeArg("has_name", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if node == nil {
			return ruleexpr.BoolValue(false), nil
		}

		var names []string
		for _, arg := range args[1:] {
			names = append(names, arg.AsString())
		}

		return ruleexpr.BoolValue(util.ContainsString(names, node.Name)), nil
	}

	table["has_prohibited_chars"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		text, err := stringArg("has_prohibited_chars", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}

		return ruleexpr.BoolValue(strings.ContainsAny(text, prohibitedChars)), nil
	}

	table["contains_date"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		text, err := stringArg("contains_date", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}

		for _, token := range strings.Fields(text) {
			for _, layout := range dateTokenLayouts {
				if _, err := time.Parse(layout, token); err == nil {
					return ruleexpr.BoolValue(true), nil
				}
			}
		}

		return ruleexpr.BoolValue(false), nil
	}
}
