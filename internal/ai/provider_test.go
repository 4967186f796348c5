package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testDefaults = map[ProviderID]string{
	ProviderGoogle:     "gemini-2.0-flash",
	ProviderOpenRouter: "meta-llama/llama-3.3-70b-instruct",
}

func TestResolve_GeminiModelsGoToGoogle(t *testing.T) {
	desc := Resolve("gemini-2.5-pro", testDefaults)
	require.Equal(t, ProviderGoogle, desc.Provider)
	require.Equal(t, "gemini-2.5-pro", desc.Model)

	desc = Resolve("models/Gemini-Flash", testDefaults)
	require.Equal(t, ProviderGoogle, desc.Provider)
}

func TestResolve_OtherModelsGoToOpenRouter(t *testing.T) {
	desc := Resolve("anthropic/claude-sonnet-4", testDefaults)
	require.Equal(t, ProviderOpenRouter, desc.Provider)
	require.Equal(t, "anthropic/claude-sonnet-4", desc.Model)
}

func TestResolve_EmptyModelUsesGoogleDefault(t *testing.T) {
	desc := Resolve("  ", testDefaults)
	require.Equal(t, ProviderGoogle, desc.Provider)
	require.Equal(t, "gemini-2.0-flash", desc.Model)
}

func TestResolveFor_PinsProviderAndFillsDefault(t *testing.T) {
	desc := ResolveFor(ProviderOpenRouter, "", testDefaults)
	require.Equal(t, ProviderOpenRouter, desc.Provider)
	require.Equal(t, "meta-llama/llama-3.3-70b-instruct", desc.Model)

	// a pinned endpoint keeps its provider even for a gemini model name
	desc = ResolveFor(ProviderOpenRouter, "google/gemini-2.0-flash-exp", testDefaults)
	require.Equal(t, ProviderOpenRouter, desc.Provider)
	require.Equal(t, "google/gemini-2.0-flash-exp", desc.Model)
}
