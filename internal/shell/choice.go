package shell

// Choice is the backend selection derived from the shell flags.
type Choice int

const (
	ChoiceAuto Choice = iota
	ChoicePlain
	ChoiceRich
	ChoiceYaegi
)

func (c Choice) String() string {
	switch c {
	case ChoicePlain:
		return BackendPlain
	case ChoiceRich:
		return BackendRich
	case ChoiceYaegi:
		return BackendYaegi
	default:
		return "auto"
	}
}

// Flags are the options of the shell subcommand.
type Flags struct {
	// ForceRich forces the rich line-editor shell (-I/--ipython).
	ForceRich bool
	// ForceYaegi forces the embedded yaegi REPL (-B/--bpython).
	ForceYaegi bool
	// ForcePlain forces the plain shell (--python).
	ForcePlain bool
	// WithoutTasks keeps discovered tasks out of the namespace.
	WithoutTasks bool

	Eventlet bool
	Gevent   bool
}

// ResolveChoice applies the flag priority plain > yaegi > rich > auto.
func ResolveChoice(f Flags) Choice {
	switch {
	case f.ForcePlain:
		return ChoicePlain
	case f.ForceYaegi:
		return ChoiceYaegi
	case f.ForceRich:
		return ChoiceRich
	default:
		return ChoiceAuto
	}
}
