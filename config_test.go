package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const (
	nativeModel = "gemini-2.5-flash-preview-native-audio-dialog"
	liveModel   = "gemini-2.0-flash-live-001"
)

func TestAffectiveDialogSelection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SessionConfig
		wantClient bool
	}{
		{
			name:       "native model with affective dialog",
			cfg:        SessionConfig{Model: nativeModel, AffectiveDialog: true},
			wantClient: true,
		},
		{
			name:       "thinking native model with affective dialog",
			cfg:        SessionConfig{Model: "gemini-2.5-flash-exp-native-audio-thinking-dialog", AffectiveDialog: true},
			wantClient: true,
		},
		{
			name:       "live model with affective dialog",
			cfg:        SessionConfig{Model: liveModel, AffectiveDialog: true},
			wantClient: false,
		},
		{
			name:       "native model without affective dialog",
			cfg:        SessionConfig{Model: nativeModel},
			wantClient: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantClient, UsesAffectiveClient(tt.cfg))

			cc := ClientConfig("key", tt.cfg)
			assert.Equal(t, "key", cc.APIKey)
			assert.Equal(t, genai.BackendGeminiAPI, cc.Backend)
			lc := BuildConnectConfig(tt.cfg)
			if tt.wantClient {
				assert.Equal(t, "v1alpha", cc.HTTPOptions.APIVersion)
				require.NotNil(t, lc.EnableAffectiveDialog)
				assert.True(t, *lc.EnableAffectiveDialog)
			} else {
				assert.Empty(t, cc.HTTPOptions.APIVersion)
				assert.Nil(t, lc.EnableAffectiveDialog)
			}
		})
	}
}

func TestAffectiveFlagIgnoredLeavesConfigUnchanged(t *testing.T) {
	base := SessionConfig{Model: liveModel, Voice: "Kore", SystemInstruction: "be brief"}
	flagged := base
	flagged.AffectiveDialog = true

	assert.Equal(t, BuildConnectConfig(base), BuildConnectConfig(flagged))
}

func TestBuildConnectConfigMinimal(t *testing.T) {
	lc := BuildConnectConfig(SessionConfig{Model: liveModel})

	assert.Equal(t, []genai.Modality{genai.ModalityAudio}, lc.ResponseModalities)
	assert.Nil(t, lc.SystemInstruction)
	assert.Nil(t, lc.SpeechConfig)
	assert.Nil(t, lc.InputAudioTranscription)
	assert.Nil(t, lc.OutputAudioTranscription)
	assert.Nil(t, lc.RealtimeInputConfig)
}

func TestBuildConnectConfigFull(t *testing.T) {
	lc := BuildConnectConfig(SessionConfig{
		Model:               liveModel,
		ResponseModality:    ModalityAudio,
		SystemInstruction:   "You recommend games.",
		Voice:               "Kore",
		InputTranscription:  true,
		OutputTranscription: true,
		ActivityDetection: &ActivityDetection{
			StartSensitivity:  "high",
			EndSensitivity:    "low",
			PrefixPaddingMs:   200,
			SilenceDurationMs: 500,
		},
	})

	require.NotNil(t, lc.SystemInstruction)
	require.Len(t, lc.SystemInstruction.Parts, 1)
	assert.Equal(t, "You recommend games.", lc.SystemInstruction.Parts[0].Text)

	require.NotNil(t, lc.SpeechConfig)
	assert.Equal(t, "Kore", lc.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)

	assert.NotNil(t, lc.InputAudioTranscription)
	assert.NotNil(t, lc.OutputAudioTranscription)

	require.NotNil(t, lc.RealtimeInputConfig)
	aad := lc.RealtimeInputConfig.AutomaticActivityDetection
	require.NotNil(t, aad)
	assert.False(t, aad.Disabled)
	assert.Equal(t, genai.StartSensitivityHigh, aad.StartOfSpeechSensitivity)
	assert.Equal(t, genai.EndSensitivityLow, aad.EndOfSpeechSensitivity)
	assert.Equal(t, int32(200), *aad.PrefixPaddingMs)
	assert.Equal(t, int32(500), *aad.SilenceDurationMs)
}

func TestAudioFormat(t *testing.T) {
	assert.Equal(t, "audio/pcm;rate=16000", InputFormat.MIMEType())
	assert.Equal(t, "audio/pcm;rate=24000", OutputFormat.MIMEType())
	assert.Equal(t, 2048, InputFormat.FrameBytes(FrameSize))
}
