// # Go Client Package for Gemini Live Voice Conversations
//
// This repository streams microphone audio to the Gemini Live API and plays back the spoken reply. The root package builds the session configuration, picks the right genai client for it and wraps the live session; agents/ runs the duplex audio pump, tools/ owns the audio devices and catalog/ exports the RAWG game catalog used by the assistant's prompt.
package live
