package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "brackets and underscores",
			text: "aaa (bbb, ccc) [ddd_eee] __DDD__",
			want: []string{"aaa", "bbb", "ccc", "ddd", "eee", "DDD"},
		},
		{
			name: "digit next to underscore",
			text: "arg2_name",
			want: []string{"arg", "name"},
		},
		{
			name: "case preserved and numbers dropped",
			text: "AA+BB-CC*D/E=45",
			want: []string{"AA", "BB", "CC", "D", "E"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "whitespace and digits only",
			text: "   123  ",
			want: nil,
		},
		{
			name: "digits split words",
			text: "vvv87www",
			want: []string{"vvv", "www"},
		},
		{
			name: "python source",
			text: "def f(x_1): return x_1+2",
			want: []string{"def", "f", "x", "return"},
		},
		{
			name: "non-ascii letters",
			text: "naïve café_straße 42",
			want: []string{"naïve", "café", "straße"},
		},
		{
			name: "duplicates collapse",
			text: "foo foo\tfoo\nFoo",
			want: []string{"foo", "Foo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractWords(tt.text)
			assert.ElementsMatch(t, tt.want, got.Sorted())
			assert.False(t, got.Contains(""), "empty string must never be a word")
		})
	}
}

func TestExtractWordsMultiline(t *testing.T) {
	text := `   aaa (bbb, ccc) [ddd_eee] __DDD__
		AA+BB-CC*D/E=45
		ttt~!@#$%^&*+-=/TTT
		sss.,;"'SSS # comment
		qqq{rrr} uuu vvv87www`

	want := NewWordSet(
		"aaa", "bbb", "ccc", "ddd", "eee", "DDD",
		"AA", "BB", "CC", "D", "E",
		"ttt", "TTT", "sss", "SSS", "qqq", "rrr", "uuu", "vvv", "www", "comment",
	)
	assert.Equal(t, want, ExtractWords(text))
}

func TestNewNormalization(t *testing.T) {
	// "e" followed by a combining acute accent. Combining marks are not
	// letters, so without composition the word splits.
	decomposed := "cafe\u0301"

	plain, err := New("")
	require.NoError(t, err)
	assert.Equal(t, NewWordSet("cafe"), plain.Extract(decomposed))

	nfc, err := New(FormNFC)
	require.NoError(t, err)
	assert.Equal(t, NewWordSet("caf\u00e9"), nfc.Extract(decomposed))

	nfkc, err := New("NFKC")
	require.NoError(t, err)
	assert.Equal(t, NewWordSet("fi", "x"), nfkc.Extract("\ufb01 x"))

	_, err = New("nfd")
	assert.Error(t, err)
}

func TestWordSetSorted(t *testing.T) {
	s := NewWordSet("b", "a", "C")
	assert.Equal(t, []string{"C", "a", "b"}, s.Sorted())
	assert.Empty(t, WordSet{}.Sorted())
}
