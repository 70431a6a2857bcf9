package live

import (
	"slices"
	"strings"

	"google.golang.org/genai"
)

type Modality string

const (
	ModalityAudio Modality = Modality(genai.ModalityAudio)
	ModalityText  Modality = Modality(genai.ModalityText)
)

// Models that accept enable_affective_dialog.
var NativeAudioModels = []string{
	"gemini-2.5-flash-preview-native-audio-dialog",
	"gemini-2.5-flash-exp-native-audio-thinking-dialog",
}

const affectiveAPIVersion = "v1alpha"

// ActivityDetection tunes the server side voice activity detection.
type ActivityDetection struct {
	Disabled          bool   `yaml:"disabled"`
	StartSensitivity  string `yaml:"start_sensitivity"` // high or low
	EndSensitivity    string `yaml:"end_sensitivity"`   // high or low
	PrefixPaddingMs   int32  `yaml:"prefix_padding_ms"`
	SilenceDurationMs int32  `yaml:"silence_duration_ms"`
}

// SessionConfig is built once per run and never changed after Connect.
type SessionConfig struct {
	Model               string             `yaml:"model"`
	ResponseModality    Modality           `yaml:"response_modality"`
	SystemInstruction   string             `yaml:"-"`
	Voice               string             `yaml:"voice"`
	InputTranscription  bool               `yaml:"input_transcription"`
	OutputTranscription bool               `yaml:"output_transcription"`
	AffectiveDialog     bool               `yaml:"affective_dialog"`
	ActivityDetection   *ActivityDetection `yaml:"activity_detection"`
}

func IsNativeAudioModel(model string) bool {
	return slices.Contains(NativeAudioModels, model)
}

// UsesAffectiveClient reports whether cfg needs the v1alpha client. The
// flag is ignored for models outside NativeAudioModels.
func UsesAffectiveClient(cfg SessionConfig) bool {
	return cfg.AffectiveDialog && IsNativeAudioModel(cfg.Model)
}

func ClientConfig(apiKey string, cfg SessionConfig) *genai.ClientConfig {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if UsesAffectiveClient(cfg) {
		cc.HTTPOptions = genai.HTTPOptions{APIVersion: affectiveAPIVersion}
	}
	return cc
}

// BuildConnectConfig maps cfg onto the wire configuration. Optional blocks
// are left nil unless requested.
func BuildConnectConfig(cfg SessionConfig) *genai.LiveConnectConfig {
	modality := cfg.ResponseModality
	if modality == "" {
		modality = ModalityAudio
	}
	lc := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.Modality(modality)},
	}
	if cfg.SystemInstruction != "" {
		lc.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}
	if cfg.Voice != "" {
		lc.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}
	if cfg.InputTranscription {
		lc.InputAudioTranscription = &genai.AudioTranscriptionConfig{}
	}
	if cfg.OutputTranscription {
		lc.OutputAudioTranscription = &genai.AudioTranscriptionConfig{}
	}
	if UsesAffectiveClient(cfg) {
		lc.EnableAffectiveDialog = genai.Ptr(true)
	}
	if ad := cfg.ActivityDetection; ad != nil {
		aad := &genai.AutomaticActivityDetection{
			Disabled:                 ad.Disabled,
			StartOfSpeechSensitivity: startSensitivity(ad.StartSensitivity),
			EndOfSpeechSensitivity:   endSensitivity(ad.EndSensitivity),
		}
		if ad.PrefixPaddingMs > 0 {
			aad.PrefixPaddingMs = genai.Ptr(ad.PrefixPaddingMs)
		}
		if ad.SilenceDurationMs > 0 {
			aad.SilenceDurationMs = genai.Ptr(ad.SilenceDurationMs)
		}
		lc.RealtimeInputConfig = &genai.RealtimeInputConfig{AutomaticActivityDetection: aad}
	}
	return lc
}

func startSensitivity(s string) genai.StartSensitivity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return genai.StartSensitivityHigh
	case "low":
		return genai.StartSensitivityLow
	}
	return genai.StartSensitivityUnspecified
}

func endSensitivity(s string) genai.EndSensitivity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return genai.EndSensitivityHigh
	case "low":
		return genai.EndSensitivityLow
	}
	return genai.EndSensitivityUnspecified
}
