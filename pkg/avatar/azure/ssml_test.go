package azure

import (
	"testing"

	"github.com/adrianliechti/avatar/pkg/avatar"

	"github.com/stretchr/testify/require"
)

func TestFormatContent(t *testing.T) {
	ssml := avatar.SynthesizeOptions{Voice: "ar-SA-HamedNeural", InputKind: avatar.InputKindSSML}
	plain := avatar.SynthesizeOptions{Voice: "ar-SA-HamedNeural", InputKind: avatar.InputKindPlainText}

	t.Run("wraps text into ssml", func(t *testing.T) {
		result := formatContent("مرحبا", ssml)
		require.Equal(t, `<speak version="1.0" xml:lang="ar-SA"><voice name="ar-SA-HamedNeural">مرحبا</voice></speak>`, result)
	})

	t.Run("keeps existing ssml", func(t *testing.T) {
		input := `<speak version="1.0" xml:lang="en-US"><voice name="en-US-AvaNeural">Hi</voice></speak>`
		require.Equal(t, input, formatContent(input, ssml))
	})

	t.Run("keeps plain text", func(t *testing.T) {
		require.Equal(t, "a < b", formatContent("a < b", plain))
	})

	t.Run("escapes markup", func(t *testing.T) {
		result := formatContent("a < b", ssml)
		require.Contains(t, result, ">a &lt; b</voice>")
	})
}

func TestVoiceLanguage(t *testing.T) {
	require.Equal(t, "ar-SA", voiceLanguage("ar-SA-HamedNeural"))
	require.Equal(t, "zh-CN", voiceLanguage("zh-CN-shaanxi-XiaoniNeural"))
	require.Equal(t, "en-US", voiceLanguage("custom"))
	require.Equal(t, "en-US", voiceLanguage(""))
}
