package azure

// https://learn.microsoft.com/en-us/azure/ai-services/speech-service/text-to-speech-avatar/batch-synthesis-avatar

type SynthesisRequest struct {
	SynthesisConfig SynthesisConfig `json:"synthesisConfig"`

	InputKind string           `json:"inputKind"`
	Inputs    []SynthesisInput `json:"inputs"`

	AvatarConfig AvatarConfig `json:"avatarConfig"`
}

type SynthesisConfig struct {
	Voice string `json:"voice"`
}

type SynthesisInput struct {
	Content string `json:"content"`
}

type AvatarConfig struct {
	Customized bool `json:"customized"`

	TalkingAvatarCharacter string `json:"talkingAvatarCharacter"`
	TalkingAvatarStyle     string `json:"talkingAvatarStyle,omitempty"`

	VideoFormat string `json:"videoFormat,omitempty"`
	VideoCodec  string `json:"videoCodec,omitempty"`

	SubtitleType    string `json:"subtitleType,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

type SynthesisJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	Outputs *SynthesisOutputs `json:"outputs,omitempty"`
}

type SynthesisOutputs struct {
	Result  string `json:"result"`
	Summary string `json:"summary"`
}
