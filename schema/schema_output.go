package schema

// Complexity label values.
const (
	CriticalValue = "Critical"
	HighValue     = "High"
	ModerateValue = "Moderate"
	LowValue      = "Low"
)

// EnrichedRepository adds presentation data to a RankedRepository.
type EnrichedRepository struct {
	Label        string  `json:"label"`
	DisplayScore float64 `json:"display_score"`
	RankedRepository
}

// GetPlainLabel returns a plain text label indicating the complexity level
// based on a 0-100 display score.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return CriticalValue
	case score >= 60:
		return HighValue
	case score >= 40:
		return ModerateValue
	default:
		return LowValue
	}
}

// EnrichRepositories adds label and display score to ranked repositories.
func EnrichRepositories(ranked []RankedRepository) []EnrichedRepository {
	output := make([]EnrichedRepository, len(ranked))
	for i, r := range ranked {
		output[i] = EnrichedRepository{
			Label:            GetPlainLabel(r.DisplayScore()),
			DisplayScore:     r.DisplayScore(),
			RankedRepository: r,
		}
	}
	return output
}
