package build

import (
	"strconv"
	"strings"
	"time"
)

// Target identifies the platform to build a player for.
type Target string

const (
	TargetWindows64 Target = "StandaloneWindows64"
	TargetAndroid   Target = "Android"
	TargetWebGL     Target = "WebGL"
)

// CommandLineName returns the name the editor accepts for -buildTarget.
func (t Target) CommandLineName() string {
	switch t {
	case TargetWindows64:
		return "Win64"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of the supported targets.
func (t Target) Valid() bool {
	switch t {
	case TargetWindows64, TargetAndroid, TargetWebGL:
		return true
	default:
		return false
	}
}

// Result is the result code reported by the engine for one build.
type Result int

const (
	ResultUnknown Result = iota
	ResultSucceeded
	ResultFailed
	ResultCancelled
)

func (r Result) String() string {
	switch r {
	case ResultSucceeded:
		return "Succeeded"
	case ResultFailed:
		return "Failed"
	case ResultCancelled:
		return "Cancelled"
	case ResultUnknown:
		return "Unknown"
	default:
		return "Result(" + strconv.Itoa(int(r)) + ")"
	}
}

// ParseResult is the inverse of Result.String. Unrecognized input yields ResultUnknown.
func ParseResult(s string) Result {
	switch s {
	case "Succeeded":
		return ResultSucceeded
	case "Failed":
		return ResultFailed
	case "Cancelled":
		return ResultCancelled
	default:
		return ResultUnknown
	}
}

// MarshalText encodes r by name so serialized outcomes stay readable.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a result name.
func (r *Result) UnmarshalText(text []byte) error {
	*r = ParseResult(string(text))
	return nil
}

// Options are engine build option flags.
type Options uint32

// OptionsNone requests a plain player build.
const OptionsNone Options = 0

// Scene is one entry of the project scene registry.
type Scene struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// Request describes one platform dispatch.
type Request struct {
	PlatformLabel string
	Target        Target
	// OutputExtension is appended to the product name to form the output file.
	// Empty means the output directory itself is the build location.
	OutputExtension string
}

// Outcome is the result report of one dispatch. It is never mutated after
// the dispatcher returns it.
type Outcome struct {
	DispatchID     string        `json:"dispatch_id"`
	Succeeded      bool          `json:"succeeded"`
	Platform       string        `json:"platform"`
	PlatformLabel  string        `json:"platform_label"`
	Target         Target        `json:"target"`
	Result         Result        `json:"result"`
	TotalSizeBytes int64         `json:"total_size_bytes"`
	OutputPath     string        `json:"output_path"`
	Scenes         int           `json:"scenes"`
	Version        string        `json:"version"`
	Commit         string        `json:"commit,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
}

// Platform binds a label and output convention to a target.
type Platform struct {
	Label     string
	Target    Target
	Extension string
}

// Request returns the dispatch request for p.
func (p Platform) Request() Request {
	return Request{PlatformLabel: p.Label, Target: p.Target, OutputExtension: p.Extension}
}

var (
	PlatformWindows = Platform{Label: "Windows", Target: TargetWindows64, Extension: ".exe"}
	PlatformAndroid = Platform{Label: "Android", Target: TargetAndroid, Extension: ".apk"}
	// WebGL output is a directory.
	PlatformWebGL = Platform{Label: "WebGL", Target: TargetWebGL}
)

// DefaultPlatforms returns the platforms DispatchAll builds, in dispatch order.
func DefaultPlatforms() []Platform {
	return []Platform{PlatformWindows, PlatformAndroid, PlatformWebGL}
}

// LookupPlatform finds a default platform by label, case-insensitively.
func LookupPlatform(label string) (Platform, bool) {
	for _, p := range DefaultPlatforms() {
		if strings.EqualFold(p.Label, label) {
			return p, true
		}
	}
	return Platform{}, false
}
