package pprl

import "github.com/hupe1980/pprl/record"

// ValidateParties rejects nil parties and duplicate party identifiers.
func ValidateParties(parties []record.Party) error {
	seen := make(map[string]struct{}, len(parties))
	for i, p := range parties {
		if p == nil {
			return &ConfigError{Field: "parties", Value: i, cause: errNilParty}
		}
		if _, ok := seen[p.ID()]; ok {
			return &ConfigError{Field: "parties", Value: p.ID(), cause: errDuplicateParty}
		}
		seen[p.ID()] = struct{}{}
	}
	return nil
}
