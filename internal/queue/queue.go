package queue

import (
	"context"

	"github.com/maheshrc27/postpilot/internal/transfer"
)

const TaskTypeDispatchPass = "dispatch:pass"

type DispatchPassPayload struct {
	Trigger string `json:"trigger"`
}

// PassRunner runs one guarded dispatch pass.
type PassRunner interface {
	Run(ctx context.Context) (*transfer.DispatchSummary, error)
}
