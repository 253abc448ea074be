// Package models defines the CharKeeper entity types: characters with their
// saved prompts, prompt presets, global settings and sync status. Types here
// carry no behavior beyond identity, equality and serialization contracts.
package models

// SectionKind identifies one of the fixed prompt section categories used to
// scope presets and default texts. The string values double as JSON map keys
// in persisted documents, so they must stay stable.
type SectionKind string

const (
	SectionPhysical    SectionKind = "physical"
	SectionOutfit      SectionKind = "outfit"
	SectionPose        SectionKind = "pose"
	SectionEnvironment SectionKind = "environment"
	SectionLighting    SectionKind = "lighting"
	SectionStyle       SectionKind = "style"
	SectionTechnical   SectionKind = "technical"
	SectionNegative    SectionKind = "negative"
)

// AllSectionKinds lists every section kind in display order.
var AllSectionKinds = []SectionKind{
	SectionPhysical,
	SectionOutfit,
	SectionPose,
	SectionEnvironment,
	SectionLighting,
	SectionStyle,
	SectionTechnical,
	SectionNegative,
}

// Valid reports whether k is one of the eight known section kinds.
func (k SectionKind) Valid() bool {
	for _, v := range AllSectionKinds {
		if k == v {
			return true
		}
	}
	return false
}
