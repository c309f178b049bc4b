package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringsUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected FlexStrings
		wantErr  bool
	}{
		{name: "array", raw: `["a","b"]`, expected: FlexStrings{"a", "b"}},
		{name: "bare string wraps to single element", raw: `"just one line"`, expected: FlexStrings{"just one line"}},
		{name: "empty string yields nil", raw: `""`, expected: nil},
		{name: "empty array", raw: `[]`, expected: FlexStrings{}},
		{name: "number rejected", raw: `42`, wantErr: true},
		{name: "object rejected", raw: `{"a":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexStrings
			err := json.Unmarshal([]byte(tt.raw), &f)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestRawDeckUnmarshal(t *testing.T) {
	raw := `{"slides":[
		{"title":"Intro","content":"a single string","imagePrompt":"sunrise","layout":"title"},
		{"title":"Points","content":["one","two"],"layout":"default"}
	]}`

	var deck RawDeck
	require.NoError(t, json.Unmarshal([]byte(raw), &deck))
	require.Len(t, deck.Slides, 2)

	assert.Equal(t, FlexStrings{"a single string"}, deck.Slides[0].Content)
	assert.Equal(t, "sunrise", deck.Slides[0].ImagePrompt)
	assert.Equal(t, FlexStrings{"one", "two"}, deck.Slides[1].Content)
}
