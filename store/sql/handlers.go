package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func hookSetHandlers() repository.ModelHandlers[*hookSetRecord] {
	return repository.ModelHandlers[*hookSetRecord]{
		NewRecord: func() *hookSetRecord {
			return &hookSetRecord{}
		},
		GetID: func(record *hookSetRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *hookSetRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *hookSetRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func feeConfigHandlers() repository.ModelHandlers[*feeConfigRecord] {
	return repository.ModelHandlers[*feeConfigRecord]{
		NewRecord: func() *feeConfigRecord {
			return &feeConfigRecord{}
		},
		GetID: func(record *feeConfigRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *feeConfigRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *feeConfigRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
