package lead

import (
	"strings"

	leadModels "leadgate/internal/domain/models/lead"
)

// Merge folds an extractor patch into the current record and returns a new
// record; neither input is mutated. Rules, per field:
//
//   - empty patch values never overwrite anything
//   - later non-empty values win (freshest-wins)
//   - a validated phone number is never replaced by an invalid one
func Merge(current, patch leadModels.Record) leadModels.Record {
	merged := current.Clone()
	if merged == nil {
		merged = leadModels.Record{}
	}

	for field, value := range patch {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if field == leadModels.FieldPhone &&
			ValidPhone(merged[leadModels.FieldPhone]) && !ValidPhone(value) {
			continue
		}

		merged[field] = value
	}

	return merged
}
