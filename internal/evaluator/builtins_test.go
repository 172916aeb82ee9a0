package evaluator

import (
	"testing"
)

// printTest runs a one-line print statement and compares the output.
type printTest struct {
	input string
	want  string
}

func runPrintTests(t *testing.T, tests []printTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, out := runSource(t, tt.input)
			if isError(result) {
				t.Fatalf("unexpected error: %s", result.Inspect())
			}
			if out != tt.want+"\n" {
				t.Errorf("expected %q, got %q", tt.want+"\n", out)
			}
		})
	}
}

func runErrorTests(t *testing.T, tests map[string]string) {
	t.Helper()
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			result, _ := runSource(t, input)
			expectError(t, result, want)
		})
	}
}

func TestStringBuiltins(t *testing.T) {
	runPrintTests(t, []printTest{
		{`print upper "hello"`, "HELLO"},
		{`print lower "WORLD"`, "world"},
		{`print trim "  padded  "`, "padded"},
		{`print replace "banana" "na" "ma"`, "bamama"},
		{`print split "a,b,c" ","`, `["a", "b", "c"]`},
		{`print join ", " ["a", "b", "c"]`, "a, b, c"},
		{`print join "-" []`, ""},
		{`print contains "haystack" "hay"`, "true"},
		{`print contains "haystack" "needle"`, "false"},
		{`print starts_with "filename.srv" "file"`, "true"},
		{`print ends_with "filename.srv" ".srv"`, "true"},
		{`print substring "hello" 1 3`, "el"},
		{`print substring "hello" 0 99`, "hello"},
		{`print substring "hello" (0 - 3) 99`, "llo"},
		{`print substring "hello" 3 1`, ""},
		{`print index_of "hello" "ll"`, "2"},
		{`print index_of "hello" "z"`, "-1"},
		{`print char_at "hello" 1`, "e"},
	})
}

func TestStringBuiltinErrors(t *testing.T) {
	runErrorTests(t, map[string]string{
		`print upper 5`:              "upper expects a string, got number",
		`print upper "a" "b"`:        "upper expects 1 argument, got 2",
		`print split "abc" ""`:       "split expects a non-empty separator",
		`print join "," 5`:           "join expects a list, got number",
		`print join "," [1]`:         "join expects a list of strings, got number at index 0",
		`print char_at "abc" 5`:      "Index 5 out of bounds (size 3)",
		`print contains ([1, 2]) 1`:  "contains expects a string or map, got list",
		`print replace "a" "b"`:      "replace expects 3 arguments, got 2",
	})
}

func TestMathBuiltins(t *testing.T) {
	runPrintTests(t, []printTest{
		{`print abs (0 - 5)`, "5"},
		{`print abs 3.5`, "3.5"},
		{`print round 3.7`, "4"},
		{`print round 2.5`, "2"},
		{`print round 3.5`, "4"},
		{`print round 3.14159 2`, "3.14"},
		{`print floor 3.9`, "3"},
		{`print ceil 3.1`, "4"},
		{`print sqrt 16`, "4"},
		{`print power 2 10`, "1024"},
	})
}

func TestMathBuiltinErrors(t *testing.T) {
	runErrorTests(t, map[string]string{
		`print sqrt (0 - 4)`: "sqrt of a negative number",
		`print abs "x"`:      "abs expects a number, got string",
		`print power 2`:      "power expects 2 arguments, got 1",
	})
}

func TestUtilityBuiltins(t *testing.T) {
	runPrintTests(t, []printTest{
		{`print type_of 5`, "number"},
		{`print type_of "x"`, "string"},
		{`print type_of true`, "bool"},
		{`print type_of ([1])`, "list"},
		{`print type_of ({})`, "map"},
		{`print to_string 42`, "42"},
		{`print to_string ([1, 2])`, "[1, 2]"},
		{`print to_number "3.5"`, "3.5"},
		{`print to_number "-2"`, "-2"},
		{`print range 5`, "[0, 1, 2, 3, 4]"},
		{`print range 2 5`, "[2, 3, 4]"},
		{`print range 0 10 2`, "[0, 2, 4, 6, 8]"},
		{`print range 5 0 (0 - 1)`, "[5, 4, 3, 2, 1]"},
		{`print range 5 5`, "[]"},
		{`print reverse ([1, 2, 3])`, "[3, 2, 1]"},
		{`print reverse "abc"`, "cba"},
		{`print sort ([3, 1, 2])`, "[1, 2, 3]"},
		{`print sort (["b", "a", "c"])`, `["a", "b", "c"]`},
		{`print sort ([])`, "[]"},
	})
}

func TestUtilityBuiltinErrors(t *testing.T) {
	runErrorTests(t, map[string]string{
		`print to_number "abc"`:    "Cannot convert 'abc' to number",
		`print to_number ([1])`:    "Cannot convert list to number",
		`print range 1 2 0`:        "range step cannot be zero",
		`print range "x"`:          "range expects number arguments, got string",
		`print reverse 5`:          "reverse expects a list or string, got number",
		`print sort 5`:             "sort expects a list, got number",
		`print sort ([1, "a"])`:    "sort expects a list of all numbers or all strings",
	})
}

func TestRangeSizeLimit(t *testing.T) {
	result, _ := runSourceWithOptions(t, "x = range 100", Options{MaxLoopIterations: 10})
	expectError(t, result, "Range of 100 exceeds maximum of 10 elements")
}

func TestSortDoesNotMutate(t *testing.T) {
	input := `nums = [3, 1, 2]
sorted = sort nums
print nums
print sorted`
	_, out := runSource(t, input)
	want := "[3, 1, 2]\n[1, 2, 3]\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestMapBuiltins(t *testing.T) {
	// An identifier argument followed by another atom opens a nested call,
	// so the map argument is parenthesized to keep the atoms apart.
	input := `ages = {"alice": 30, "bob": 25}
print keys ages
print values ages
print has_key (ages) "alice"
print has_key (ages) "dave"
print contains (ages) "bob"`
	_, out := runSource(t, input)
	want := "[\"alice\", \"bob\"]\n[30, 25]\ntrue\nfalse\ntrue\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestMapBuiltinErrors(t *testing.T) {
	runErrorTests(t, map[string]string{
		`print keys ([1])`:    "keys expects a map, got list",
		`print values "x"`:    "values expects a map, got string",
		`print has_key 5 "k"`: "has_key expects a map, got number",
	})
}

func TestNumberKeysInMaps(t *testing.T) {
	input := `m = {1: "one", 2: "two"}
print m[1]
print has_key (m) 2`
	_, out := runSource(t, input)
	want := "one\ntrue\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}
