package ruleexpr

import (
	"fmt"
	"strings"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// builtins are the XPath 1.0 core functions the rule expressions use. They
// live here rather than in the stock engine because their arguments may be
// the results of extension function calls.
var builtins FunctionTable

func init() {
	builtins = FunctionTable{
		"not": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("not", args, 1); err != nil {
				return Value{}, err
			}

			return BoolValue(!args[0].AsBool()), nil
		},
		"boolean": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("boolean", args, 1); err != nil {
				return Value{}, err
			}

			return BoolValue(args[0].AsBool()), nil
		},
		"true": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("true", args, 0); err != nil {
				return Value{}, err
			}

			return BoolValue(true), nil
		},
		"false": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("false", args, 0); err != nil {
				return Value{}, err
			}

			return BoolValue(false), nil
		},
		"count": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("count", args, 1); err != nil {
				return Value{}, err
			}
			if args[0].Kind != KindNodeSet {
				return Value{}, fmt.Errorf("count() needs a node set, got %s", args[0])
			}

			return NumberValue(float64(len(args[0].Nodes))), nil
		},
		"string": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("string", args, 1); err != nil {
				return Value{}, err
			}

			return StringValue(args[0].AsString()), nil
		},
		"number": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("number", args, 1); err != nil {
				return Value{}, err
			}

			number, ok := args[0].AsNumber()
			if !ok {
				return Value{}, fmt.Errorf("number() cannot convert %s", args[0])
			}

			return NumberValue(number), nil
		},
		"contains": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("contains", args, 2); err != nil {
				return Value{}, err
			}

			return BoolValue(strings.Contains(args[0].AsString(), args[1].AsString())), nil
		},
		"starts-with": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("starts-with", args, 2); err != nil {
				return Value{}, err
			}

			return BoolValue(strings.HasPrefix(args[0].AsString(), args[1].AsString())), nil
		},
		"string-length": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("string-length", args, 1); err != nil {
				return Value{}, err
			}

			return NumberValue(float64(len([]rune(args[0].AsString())))), nil
		},
		"normalize-space": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if err := arity("normalize-space", args, 1); err != nil {
				return Value{}, err
			}

			return StringValue(strings.Join(strings.Fields(args[0].AsString()), " ")), nil
		},
		"concat": func(_ *xmldoc.Node, args []Value) (Value, error) {
			if len(args) < 2 {
				return Value{}, fmt.Errorf("concat() needs at least 2 arguments")
			}

			var builder strings.Builder
			for _, arg := range args {
				builder.WriteString(arg.AsString())
			}

			return StringValue(builder.String()), nil
		},
		"local-name": func(contextNode *xmldoc.Node, args []Value) (Value, error) {
			if len(args) == 0 {
				return StringValue(contextNode.Name), nil
			}
			if err := arity("local-name", args, 1); err != nil {
				return Value{}, err
			}
			if args[0].Kind != KindNodeSet {
				return Value{}, fmt.Errorf("local-name() needs a node set")
			}
			if len(args[0].Nodes) == 0 {
				return StringValue(""), nil
			}

			return StringValue(args[0].Nodes[0].Name), nil
		},
	}
}

func arity(name string, args []Value, want int) error {
	if len(args) != want {
		return fmt.Errorf("%s() takes %d argument(s), got %d", name, want, len(args))
	}

	return nil
}
