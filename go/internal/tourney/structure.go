package tourney

import "github.com/mcdev12/felt/go/internal/models"

// DefaultStructure is the display fallback used when the server payload
// carries no parseable structure. Callers substituting it must flag the
// snapshot as StructureUnavailable so the numbers are not asserted as real.
func DefaultStructure() models.TournamentStructure {
	return models.TournamentStructure{
		MinutesPerLevel:      15,
		NumberOfLevels:       15,
		BreakDurationMinutes: 10,
	}
}
