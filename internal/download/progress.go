package download

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent is a user-visible status line.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Step and Steps locate the line within a multi-track job. Both are
	// zero for other lines.
	Step  int
	Steps int
}

// Reporter receives progress events. It must be safe to call from the
// worker goroutine.
type Reporter func(ProgressEvent)

// Report calls r if it is not nil.
func (r Reporter) Report(level ProgressLevel, message string) {
	if r != nil {
		r(ProgressEvent{Message: message, Level: level})
	}
}

// Step reports a line for track step of steps.
func (r Reporter) Step(step, steps int, message string) {
	if r != nil {
		r(ProgressEvent{Message: message, Level: LevelInfo, Step: step, Steps: steps})
	}
}
