package tts

import (
	"time"

	"github.com/readaloud/readaloud/internal/audio"
)

// Engine names.
const (
	EngineSystem = "system"
	EngineGTTS   = "gtts"
	EngineEdge   = "edge"
	EngineOpenAI = "openai"
	EnginePiper  = "piper"
)

// KnownEngines lists every engine name in default priority order.
var KnownEngines = []string{EngineSystem, EngineGTTS, EngineEdge, EngineOpenAI, EnginePiper}

// Chunk is a bounded slice of the input text.
type Chunk struct {
	Index    int
	Content  string
	MaxChars int
}

// Result describes a finished conversion.
type Result struct {
	Path     string
	Size     int64
	Format   audio.Format
	Backend  string
	Chunks   int
	Duration time.Duration
}

// Descriptor is the registry's view of one backend.
type Descriptor struct {
	Name        string `yaml:"name"`
	Priority    int    `yaml:"priority"`
	Available   bool   `yaml:"available"`
	Initialized bool   `yaml:"initialized"`
	Active      bool   `yaml:"active"`
	Reason      string `yaml:"reason,omitempty"`
}

// Status reports the active backend for health checks.
type Status struct {
	Backend string `yaml:"backend"`
	Ready   bool   `yaml:"ready"`
}

// State is a step of a conversion.
type State int

const (
	StateIdle State = iota
	StateChunking
	StateSynthesizing
	StateAssembling
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChunking:
		return "chunking"
	case StateSynthesizing:
		return "synthesizing"
	case StateAssembling:
		return "assembling"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is emitted on every state change of a conversion. Chunk and Total
// are set while synthesizing; Result is set when done; Err when failed.
type Event struct {
	State   State
	Backend string
	Chunk   int
	Total   int
	Result  *Result
	Err     error
}

// Observer receives conversion events. It may be called from several
// goroutines when chunks are synthesized in parallel.
type Observer func(Event)
