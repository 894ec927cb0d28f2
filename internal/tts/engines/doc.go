// Package engines contains the speech synthesis backends: the operating
// system voice (espeak-ng, espeak or say), gTTS, Microsoft Edge read-aloud,
// OpenAI speech and Piper. Each implements tts.Backend.
package engines
