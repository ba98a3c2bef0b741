package interpreter

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/detector"
)

func TestNewSelectsProvider(t *testing.T) {
	ip, err := New(Config{Provider: ProviderGemini, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &Gemini{}, ip)

	ip, err = New(Config{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, ip)

	_, err = New(Config{Provider: "claude", APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")

	_, err = New(Config{Provider: ProviderGemini})
	require.Error(t, err)
}

func TestFuncAdapter(t *testing.T) {
	var got string
	f := Func(func(_ context.Context, hands []detector.HandLandmarks, sentence string) (string, error) {
		got = sentence
		return sentence + "!", nil
	})

	out, err := f.Interpret(context.Background(), nil, "HI")
	require.NoError(t, err)
	assert.Equal(t, "HI", got)
	assert.Equal(t, "HI!", out)
}

func TestSystemPromptIncludesGuides(t *testing.T) {
	assert.Contains(t, SystemPrompt, "## ASL reference")
	assert.Contains(t, SystemPrompt, "## SASL reference")
	assert.Contains(t, SystemPrompt, "- V: Index and middle fingers extended and spread apart.")
	assert.Contains(t, SystemPrompt, "Reply with the complete updated sentence")
	assert.Contains(t, SystemPrompt, "Two-handed in SASL: A, E, I, O, U.")
	assert.NotContains(t, SystemPrompt, "Two-handed in ASL")
}

func TestBuildUserMessage(t *testing.T) {
	msg, err := BuildUserMessage([]detector.HandLandmarks{detector.FistLandmarks()}, "HELL")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(msg, `current_sentence: "HELL"`))

	_, data, ok := strings.Cut(msg, "new_landmarks:\n")
	require.True(t, ok)

	var hands [][]detector.Point3D
	require.NoError(t, json.Unmarshal([]byte(data), &hands))
	require.Len(t, hands, 1)
	require.Len(t, hands[0], detector.NumLandmarks)
	assert.Equal(t, detector.Point3D{}, hands[0][detector.Wrist])
}

func TestBuildUserMessageQuotesSentence(t *testing.T) {
	msg, err := BuildUserMessage([]detector.HandLandmarks{detector.SpreadHandLandmarks()}, `say "hi"`)
	require.NoError(t, err)
	assert.Contains(t, msg, `current_sentence: "say \"hi\""`)
}
