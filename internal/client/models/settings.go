package models

// Settings holds process-wide defaults: per-section default text (an absent
// key means "no default", never an empty string) and the default generator
// identifier. Mutated only through the store's setters.
type Settings struct {
	GlobalDefaults   map[SectionKind]string `json:"globalDefaults"`
	DefaultGenerator string                 `json:"defaultGenerator"`
}

// Clone returns a deep copy, so callers can hand out snapshots without
// exposing the store's internal map.
func (s Settings) Clone() Settings {
	out := Settings{DefaultGenerator: s.DefaultGenerator}
	if s.GlobalDefaults != nil {
		out.GlobalDefaults = make(map[SectionKind]string, len(s.GlobalDefaults))
		for k, v := range s.GlobalDefaults {
			out.GlobalDefaults[k] = v
		}
	}
	return out
}
