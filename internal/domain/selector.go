package domain

// SelectTargets picks the targets to control. The first non-empty tier wins:
// running targets, then targets named like the previously controlled one,
// then the system default. defaultName is only called when the first two
// tiers are empty.
func SelectTargets(targets []Target, previous string, hasPrevious bool, defaultName func() (string, error)) (Selection, error) {
	if running := filterTargets(targets, func(t Target) bool { return t.Running }); len(running) > 0 {
		return Selection{Targets: running, Tier: TierRunning, RememberTarget: true}, nil
	}

	if hasPrevious {
		if prev := filterTargets(targets, func(t Target) bool { return t.Name == previous }); len(prev) > 0 {
			return Selection{Targets: prev, Tier: TierPrevious}, nil
		}
	}

	name, err := defaultName()
	if err != nil {
		return Selection{}, err
	}
	if name != "" {
		if def := filterTargets(targets, func(t Target) bool { return t.Name == name }); len(def) > 0 {
			def[0].Default = true
			return Selection{Targets: def[:1], Tier: TierDefault}, nil
		}
	}

	return Selection{Tier: TierNone}, nil
}

func filterTargets(targets []Target, keep func(Target) bool) []Target {
	var out []Target
	for _, t := range targets {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// MarkDefault flags the targets named name as the system default.
func MarkDefault(targets []Target, name string) {
	for i := range targets {
		targets[i].Default = name != "" && targets[i].Name == name
	}
}
