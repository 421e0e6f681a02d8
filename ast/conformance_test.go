// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"strings"
	"testing"

	"github.com/berdon/jval"
	"github.com/berdon/jval/ast"
	"github.com/berdon/jval/internal/testutil"
	"github.com/tailscale/hujson"
	"github.com/twmb/chkjson"
)

// TestGrammarVectors runs the scripted cases in testdata/grammar.yaml.
// A case's want is written in the JSON5 dialect, so the non-finite
// values are expressible, and is compared structurally.
func TestGrammarVectors(t *testing.T) {
	for _, tc := range testutil.LoadVectors(t, "testdata/grammar.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			var cfg jval.Config
			switch tc.Dialect {
			case "":
				// strict
			case "json5":
				cfg.Dialect = jval.JSON5
			default:
				t.Fatalf("Unknown dialect %q", tc.Dialect)
			}
			got, err := ast.ParseBuffer(jval.NewBuffer([]byte(tc.Input)), cfg)
			if tc.Fail {
				if err == nil {
					t.Fatalf("Parse %#q: got %s, want error", tc.Input, ast.FormatToString(got))
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse %#q: unexpected error: %v", tc.Input, err)
			}
			want, err := ast.ParseJSON5([]byte(tc.Want))
			if err != nil {
				t.Fatalf("Invalid want %#q: %v", tc.Want, err)
			}
			if !got.Equal(want) {
				t.Errorf("Parse %#q:\ngot:  %s\nwant: %s",
					tc.Input, ast.FormatToString(got), ast.FormatToString(want))
			}
		})
	}
}

// TestStrictAgreement cross-checks the strict parser against an
// independent RFC 8259 validator. The two agree on structure; the
// documented exceptions are pinned in their own subtests.
func TestStrictAgreement(t *testing.T) {
	check := func(t *testing.T, inputs []string, wantOurs, wantTheirs bool) {
		t.Helper()
		for _, input := range inputs {
			v, err := ast.Parse([]byte(input))
			if gotOurs := err == nil; gotOurs != wantOurs {
				t.Errorf("Input: %#q\nParse: got err=%v, want ok=%v", input, err, wantOurs)
			}
			if gotTheirs := chkjson.Valid([]byte(input)); gotTheirs != wantTheirs {
				t.Errorf("Input: %#q\nValid: got %v, want %v", input, gotTheirs, wantTheirs)
			}
			v.Release()
		}
	}

	t.Run("Valid", func(t *testing.T) {
		check(t, []string{
			`null`, `true`, `false`,
			`0`, `-0`, `123`, `-456`, `9223372036854775807`, `-9223372036854775808`,
			`0.5`, `1e6`, `1E-6`, `1.25e+3`, `3.141592653589793`,
			`""`, `"abc"`, `"a\"b"`, `"\\"`, `"\u0041"`, `"\/"`,
			`[]`, `[1,2,3]`, `[[[]]]`, `{}`, `{"a":1}`, `{"a":{"b":[null]}}`,
			" { \"a\" : [ 1 ,\t2 ] }\r\n",
			`[{"a":[]},{"b":{}}]`,
			strings.Repeat("[", 64) + "0" + strings.Repeat("]", 64),
		}, true, true)
	})

	t.Run("Invalid", func(t *testing.T) {
		check(t, []string{
			``, ` `, `tru`, `nul`, `TRUE`, `nulll`,
			`01`, `-`, `+1`, `1.`, `.5`, `1e`, `1e+`, `--1`, `0x1`,
			`"abc`, `"a`, `'x'`,
			`[1,2`, `[1,]`, `[1 2]`, `[,]`, `{,}`,
			`{"a":1,}`, `{"a"}`, `{a:1}`, `{"a":}`,
			`{}}`, `[]]`, `1 2`,
			"// c\n1", `Infinity`, `NaN`,
		}, false, false)
	})

	// String contents are carried verbatim and checked only by Unescape,
	// and the comma discipline admits leading and doubled commas.
	t.Run("Lenient", func(t *testing.T) {
		check(t, []string{
			`"\q"`, `"\u12"`, "\"a\x01b\"",
			`[,1]`, `[1,,2]`, `{,"a":1}`,
		}, true, false)
	})

	// Numbers must fit the value model; the grammar alone does not bound
	// them.
	t.Run("Bounded", func(t *testing.T) {
		check(t, []string{
			`9223372036854775808`, `-9223372036854775809`, `1e999`, `-1e999`,
		}, false, true)
	})
}

// TestCommentedAgreement feeds documents in the comments-and-commas
// subset of JSON5 through an independent standardizer, and checks that
// parsing the original under JSON5 and the standardized form under the
// strict dialect yields the same tree.
func TestCommentedAgreement(t *testing.T) {
	docs := []string{
		"// doc comment\n{\"a\": 1}",
		"{\n  \"a\": 1, // trailing\n  \"b\": [2, 3,], /* block */\n}",
		`{"url": "http://example.com/x", "re": "a//b /* not a comment */"}`,
		"[1, /* 2, */ 3,]",
		"{/* empty */}",
		"[] // done",
		"/* leading */ 17.5",
		"{\"a\" /* mid */ : [true, null,],}",
	}
	for _, doc := range docs {
		std, err := hujson.Standardize([]byte(doc))
		if err != nil {
			t.Errorf("Input: %#q\nStandardize failed: %v", doc, err)
			continue
		}
		want, err := ast.Parse(std)
		if err != nil {
			t.Errorf("Input: %#q\nParse standardized %#q failed: %v", doc, std, err)
			continue
		}
		got, err := ast.ParseJSON5([]byte(doc))
		if err != nil {
			t.Errorf("Input: %#q\nParseJSON5 failed: %v", doc, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Input: %#q\ngot:  %s\nwant: %s",
				doc, ast.FormatToString(got), ast.FormatToString(want))
		}
	}
}
