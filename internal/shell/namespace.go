package shell

import (
	"sort"

	"github.com/atinylittleshell/taskq/internal/app"
	"github.com/samber/lo"
)

// Namespace maps the names predefined in a shell session to their values.
type Namespace map[string]any

// BuildNamespace assembles the fixed entries for a and, unless
// withoutTasks is set, one entry per task keyed by its short name. Tasks
// under app.ReservedPrefix are never exposed. A task whose short name
// matches a fixed entry replaces it; between tasks sharing a short name,
// the one whose qualified name sorts last wins.
func BuildNamespace(a *app.App, withoutTasks bool) Namespace {
	ns := fixedEntries(a)
	if withoutTasks {
		return ns
	}

	tasks := lo.PickBy(a.Tasks(), func(name string, _ *app.Task) bool {
		return !app.IsReserved(name)
	})
	names := lo.Keys(tasks)
	sort.Strings(names)
	for _, name := range names {
		t := tasks[name]
		ns[t.ShortName()] = t
	}
	return ns
}

func fixedEntries(a *app.App) Namespace {
	return Namespace{
		"app":       a,
		"taskq":     a,
		"Task":      a.Register,
		"chord":     a.Chord,
		"group":     a.Group,
		"chain":     a.Chain,
		"chunks":    a.Chunks,
		"xmap":      a.XMap,
		"xstarmap":  a.XStarMap,
		"subtask":   a.Signature,
		"signature": a.Signature,
	}
}

// Names returns the namespace keys, sorted.
func (ns Namespace) Names() []string {
	names := lo.Keys(ns)
	sort.Strings(names)
	return names
}
