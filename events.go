package live

import (
	"strings"

	"google.golang.org/genai"
)

// Response is one downlink unit. Any field may be empty.
type Response struct {
	Audio            []byte
	Text             string
	InputTranscript  string
	OutputTranscript string
	TurnComplete     bool
	Interrupted      bool
	GoAway           bool
}

func (r *Response) HasAudio() bool {
	return r != nil && len(r.Audio) > 0
}

// ResponseFromMessage flattens a server message. Inline audio parts of the
// model turn are concatenated in order.
func ResponseFromMessage(msg *genai.LiveServerMessage) *Response {
	resp := new(Response)
	if msg == nil {
		return resp
	}
	resp.GoAway = msg.GoAway != nil
	sc := msg.ServerContent
	if sc == nil {
		return resp
	}
	resp.TurnComplete = sc.TurnComplete
	resp.Interrupted = sc.Interrupted
	if sc.InputTranscription != nil {
		resp.InputTranscript = sc.InputTranscription.Text
	}
	if sc.OutputTranscription != nil {
		resp.OutputTranscript = sc.OutputTranscription.Text
	}
	if sc.ModelTurn == nil {
		return resp
	}
	var text strings.Builder
	for _, part := range sc.ModelTurn.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "audio/") {
			resp.Audio = append(resp.Audio, part.InlineData.Data...)
		}
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	resp.Text = text.String()
	return resp
}
