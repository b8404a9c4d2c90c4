package rules

// NullID selects the empty ruleset.
const NullID = "null"

func init() {
	Register(NullID, func() Ruleset { return Ruleset{Name: "Null"} })
}
