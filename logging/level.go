package logging

// Level is a log level. Levels are ordered so that comparing two values
// answers "is this message verbose enough to be dropped".
type Level uint

const (
	// LevelDisabled turns logging off.
	LevelDisabled Level = iota
	// LevelError logs failures that surface to a caller.
	LevelError
	// LevelWarn logs failures that were absorbed, such as a failed cleanup.
	LevelWarn
	// LevelInfo logs stream lifecycle events.
	LevelInfo
	// LevelDebug logs open policies, temp file handling and direction
	// switches on read-write handles.
	LevelDebug
	// LevelTrace logs per-call decisions: listen probes and EINTR retries.
	LevelTrace
)

// NameToLevel converts a level name to a Level. The boolean reports whether
// the name was recognised; unrecognised names yield LevelDisabled.
func NameToLevel(name string) (Level, bool) {
	switch name {
	case "disabled":
		return LevelDisabled, true
	case "error":
		return LevelError, true
	case "warn":
		return LevelWarn, true
	case "info":
		return LevelInfo, true
	case "debug":
		return LevelDebug, true
	case "trace":
		return LevelTrace, true
	default:
		return LevelDisabled, false
	}
}

// String returns the name of the level.
func (l Level) String() string {
	switch l {
	case LevelDisabled:
		return "disabled"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}
