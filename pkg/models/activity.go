package models

import (
	"time"

	"github.com/kunoez/ks-inventory-sub000/pkg/metadata"
)

// Activity is the normalized shape of one assignment event in the merged
// feed, regardless of which of the three assignment tables it came from.
type Activity struct {
	ID           int                       `json:"id"`
	Type         string                    `json:"type"` // device | license | phone
	Action       string                    `json:"action"`
	Status       metadata.AssignmentStatus `json:"status"`
	Timestamp    time.Time                 `json:"timestamp"`
	AssignedDate time.Time                 `json:"assigned_date"`
	ReturnedDate *time.Time                `json:"returned_date,omitempty"`
	Employee     string                    `json:"employee"`
	Item         string                    `json:"item"`
	ActionBy     string                    `json:"action_by"`
	Notes        *string                   `json:"notes,omitempty"`
}

type ActivityFeed struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
}
