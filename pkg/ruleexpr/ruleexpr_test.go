package ruleexpr

import (
	"strings"
	"testing"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

const testXML = `<?xml version="1.0"?>
<Root>
  <Services>
    <Service>
      <ServiceCode>PB0001111:1</ServiceCode>
      <Lines>
        <Line id="L1"><LineName>42</LineName></Line>
        <Line id="L2"><LineName>43</LineName></Line>
      </Lines>
    </Service>
  </Services>
</Root>`

func testContext(t *testing.T) *xmldoc.Node {
	t.Helper()

	document, err := xmldoc.Parse([]byte(testXML), "test.xml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	return document.Element
}

func evaluate(t *testing.T, source string, funcs FunctionTable) Value {
	t.Helper()

	compiled, err := Compile(source, funcs)
	if err != nil {
		t.Fatalf("compile %q: %v", source, err)
	}

	value, err := compiled.Evaluate(testContext(t))
	if err != nil {
		t.Fatalf("evaluate %q: %v", source, err)
	}

	return value
}

func TestLocationPaths(t *testing.T) {
	value := evaluate(t, "//Line", nil)
	if value.Kind != KindNodeSet || len(value.Nodes) != 2 {
		t.Fatalf("//Line = %s", value)
	}

	value = evaluate(t, "//Line[@id='L1']/LineName", nil)
	if value.AsString() != "42" {
		t.Errorf("LineName = %q", value.AsString())
	}
}

func TestBuiltins(t *testing.T) {
	for _, test := range []struct {
		Source string
		Pass   bool
	}{
		{"count(//Line) = 2", true},
		{"count(//Line) > 2", false},
		{"not(//Missing)", true},
		{"contains(//Service/ServiceCode, ':')", true},
		{"starts-with(//Service/ServiceCode, 'UZ')", false},
		{"string-length(normalize-space(' 42 ')) = 2", true},
		{"concat('a', 'b') = 'ab'", true},
		{"count(//Line) + 1 = 3", true},
		{"true() and count(//Line) = 2", true},
		{"false() or count(//Line) = 2", true},
	} {
		t.Run(test.Source, func(t *testing.T) {
			value := evaluate(t, test.Source, nil)
			if value.Passed() != test.Pass {
				t.Errorf("%q = %s, expected pass=%v", test.Source, value, test.Pass)
			}
		})
	}
}

func TestExtensionFunctions(t *testing.T) {
	called := 0

	funcs := FunctionTable{
		"shout": func(_ *xmldoc.Node, args []Value) (Value, error) {
			called++
			return StringValue(strings.ToUpper(args[0].AsString())), nil
		},
		"fail_here": func(contextNode *xmldoc.Node, _ []Value) (Value, error) {
			return ReportValue(contextNode.Line, "nope"), nil
		},
	}

	value := evaluate(t, "shout('abc') = 'ABC'", funcs)
	if !value.Passed() || called != 1 {
		t.Fatalf("extension call failed: %s (called %d)", value, called)
	}

	value = evaluate(t, "fail_here()", funcs)
	if value.Kind != KindReport || value.Passed() {
		t.Fatalf("expected a failing report, got %s", value)
	}

	// A failing report short-circuits an and chain and survives it.
	value = evaluate(t, "fail_here() and true()", funcs)
	if value.Kind != KindReport {
		t.Fatalf("report lost through and: %s", value)
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile("mystery_function(.)", nil); err == nil {
		t.Error("unknown function should fail compilation")
	}
	if _, err := Compile("count(//Line", nil); err == nil {
		t.Error("unterminated call should fail compilation")
	}
	if _, err := Compile("'unterminated", nil); err == nil {
		t.Error("unterminated string should fail compilation")
	}
}

func TestNodeSetComparison(t *testing.T) {
	// Any node in the set may satisfy the comparison
	value := evaluate(t, "//Line/LineName = '43'", nil)
	if !value.Passed() {
		t.Error("expected a node of the set to match")
	}

	value = evaluate(t, "//Line/LineName = '99'", nil)
	if value.Bool {
		t.Error("no node should match")
	}
}
