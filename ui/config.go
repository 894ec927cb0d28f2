package ui

// Config contains settings read from the environment.
type Config struct {
	// Disables playback even when --play is given, for headless machines.
	NoAudio bool `env:"READALOUD_NO_AUDIO"`

	// OpenAI credentials never live in the config file.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	// Forces the plain log output even on a terminal.
	NoProgress bool `env:"READALOUD_NO_PROGRESS"`
}
