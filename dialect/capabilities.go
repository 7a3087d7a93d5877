package dialect

// Capabilities describes the optional SQL features supported by a dialect.
type Capabilities struct {
	RightJoin     bool `koanf:"right_join" yaml:"right_join"`         // RIGHT [OUTER] JOIN
	FullJoin      bool `koanf:"full_join" yaml:"full_join"`           // FULL [OUTER] JOIN
	Intersect     bool `koanf:"intersect" yaml:"intersect"`           // INTERSECT
	Except        bool `koanf:"except" yaml:"except"`                 // EXCEPT / MINUS
	NullsOrdering bool `koanf:"nulls_ordering" yaml:"nulls_ordering"` // NULLS FIRST / NULLS LAST
}

// AllCapabilities enables every optional feature.
func AllCapabilities() Capabilities {
	return Capabilities{
		RightJoin:     true,
		FullJoin:      true,
		Intersect:     true,
		Except:        true,
		NullsOrdering: true,
	}
}
