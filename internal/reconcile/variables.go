package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/dsf/internal/domain"
	"github.com/mrz1836/dsf/internal/settings"
)

// ResolveVariables copies values onto environment variable slots from the
// first record with the same schema name (exact, case-sensitive). Slots with
// no record keep their current value. Extra records are ignored, so a
// superset of records gives the same result as a pre-filtered set.
func ResolveVariables(ctx context.Context, doc *settings.Document, records []domain.VariableValueRecord) Report {
	log := zerolog.Ctx(ctx)

	values := make(map[string]string, len(records))
	for _, r := range records {
		if _, ok := values[r.SchemaName]; !ok {
			values[r.SchemaName] = r.Value
		}
	}

	slots := doc.EnvironmentVariables.Items
	report := Report{Results: make([]SlotResult, len(slots))}
	for i := range slots {
		value, ok := values[slots[i].SchemaName]
		if ok {
			slots[i].Value = value
		}

		outcome := OutcomeMatched
		if !ok {
			outcome = OutcomeUnmatched
			log.Debug().Str("schema_name", slots[i].SchemaName).Msg("no value in environment")
		}
		report.Results[i] = SlotResult{Key: slots[i].Key(), Outcome: outcome, Value: slots[i].Value}
	}

	return report
}
