package driver

// State tracks a run through its strictly ordered steps. Failed is terminal
// and reachable from any non-terminal state; nothing is re-entered after a
// failure — a rerun repeats every step and relies on the build tools' own
// incremental behavior.
type State int

const (
	StateInit State = iota
	StateConfigResolved
	StatePrereqsSatisfied
	StateDependenciesBuilt
	StateDependenciesInstalled
	StateCoreBuilt
	StateCoreInstalled
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateConfigResolved:
		return "ConfigResolved"
	case StatePrereqsSatisfied:
		return "PrereqsSatisfied"
	case StateDependenciesBuilt:
		return "DependenciesBuilt"
	case StateDependenciesInstalled:
		return "DependenciesInstalled"
	case StateCoreBuilt:
		return "CoreBuilt"
	case StateCoreInstalled:
		return "CoreInstalled"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	}
	return "Unknown"
}
