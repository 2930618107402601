// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lex "github.com/kyle-silver/jsonmap/internal/lang/lexer"
	"github.com/kyle-silver/jsonmap/internal/lang/token"
)

func TestLex_Punctuation(t *testing.T) {
	toks, err := lex.Lex("t", "= ; : , . { } [ ]")
	require.NoError(t, err)

	var kinds []string
	for _, tok := range toks {
		kinds = append(kinds, token.KindString(tok.Type))
	}
	assert.Equal(t, []string{
		"'='", "';'", "':'", "','", "'.'", "'{'", "'}'", "'['", "']'", "EOF",
	}, kinds)
}

func TestLex_RefLongestMatch(t *testing.T) {
	toks, err := lex.Lex("t", "&foo &?.0 &!bar &")
	require.NoError(t, err)
	require.Len(t, toks, 9) // Ref Ident AnonRef Dot Number GlobalRef Ident Ref EOF

	assert.Equal(t, token.Ref, toks[0].Type)
	assert.Equal(t, token.Ident, toks[1].Type)
	assert.Equal(t, token.AnonRef, toks[2].Type)
	assert.Equal(t, token.Dot, toks[3].Type)
}

func TestLex_Keywords(t *testing.T) {
	toks, err := lex.Lex("t", "map zip bind true false null notakeyword")
	require.NoError(t, err)

	kinds := make([]token.Token, 0, len(toks))
	kinds = append(kinds, toks...)
	assert.Equal(t, token.KwMap, kinds[0].Type)
	assert.Equal(t, token.KwZip, kinds[1].Type)
	assert.Equal(t, token.KwBind, kinds[2].Type)
	assert.Equal(t, token.KwTrue, kinds[3].Type)
	assert.Equal(t, token.KwFalse, kinds[4].Type)
	assert.Equal(t, token.KwNull, kinds[5].Type)
	assert.Equal(t, token.Ident, kinds[6].Type)
}

func TestLex_StringEscapes(t *testing.T) {
	toks, err := lex.Lex("t", `"a\nb\tcA\"d"`)
	require.NoError(t, err)
	require.Equal(t, token.String, toks[0].Type)
	assert.Equal(t, "a\nb\tcA\"d", toks[0].Value)
}

func TestLex_Numbers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"0", "0"},
		{"-1", "-1"},
		{"3.14", "3.14"},
		{"1e10", "1e10"},
		{"1.5e-3", "1.5e-3"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := lex.Lex("t", tt.src)
			require.NoError(t, err)
			require.Equal(t, token.Number, toks[0].Type)
			assert.Equal(t, tt.want, toks[0].Value)
		})
	}
}

func TestLex_SkipsCommentsAndWhitespace(t *testing.T) {
	toks, err := lex.Lex("t", "x = 1; // trailing comment\ny = 2;")
	require.NoError(t, err)
	var idents []string
	for _, tok := range toks {
		if tok.Type == token.Ident {
			idents = append(idents, tok.Value)
		}
	}
	assert.Equal(t, []string{"x", "y"}, idents)
}

func TestLex_UnterminatedString(t *testing.T) {
	_, err := lex.Lex("t", `"abc`)
	require.Error(t, err)
	var lexErr *lex.Error
	require.ErrorAs(t, err, &lexErr)
}

func TestLex_UnexpectedCharacter(t *testing.T) {
	_, err := lex.Lex("t", "x = @")
	require.Error(t, err)
	var lexErr *lex.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "@")
}
