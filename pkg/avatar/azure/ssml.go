package azure

import (
	"encoding/xml"
	"strings"

	"github.com/adrianliechti/avatar/pkg/avatar"
)

const defaultLanguage = "en-US"

func formatContent(input string, options avatar.SynthesizeOptions) string {
	if options.InputKind == avatar.InputKindPlainText {
		return input
	}

	if strings.Contains(input, "<speak") {
		return input
	}

	return formatSSML(input, options.Voice)
}

func formatSSML(text, voice string) string {
	lang := voiceLanguage(voice)

	var b strings.Builder

	b.WriteString(`<speak version="1.0" xml:lang="`)
	xml.EscapeText(&b, []byte(lang))
	b.WriteString(`"><voice name="`)
	xml.EscapeText(&b, []byte(voice))
	b.WriteString(`">`)
	xml.EscapeText(&b, []byte(strings.TrimSpace(text)))
	b.WriteString(`</voice></speak>`)

	return b.String()
}

// voiceLanguage derives the locale from a voice name like "ar-SA-HamedNeural".
func voiceLanguage(voice string) string {
	parts := strings.SplitN(voice, "-", 3)

	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return defaultLanguage
	}

	return parts[0] + "-" + parts[1]
}
