package output

import (
	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/domain"
)

// JSONFormatter serialises the full projection result
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}
