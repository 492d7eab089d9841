package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/hibiken/asynq"
	"google.golang.org/api/sheets/v4"
)

const TypeSheetsAppend = "sheets:append"

// SheetsAppendPayload mirrors one row into the configured spreadsheet.
// Mirroring is best effort: a lost row is acceptable, a blocked response
// is not.
type SheetsAppendPayload struct {
	Values []any
}

func (p *SheetsAppendPayload) Process() (*asynq.Task, error) {
	payload, err := json.Marshal(p)

	if err != nil {
		return nil, fmt.Errorf("marshal sheets append payload: %w", err)
	}

	return asynq.NewTask(TypeSheetsAppend, payload), nil
}

func (p *SheetsAppendPayload) ProcessorName() string {
	return "sheets append"
}

var (
	sheetsOnce    sync.Once
	sheetsService *sheets.Service
)

// sheetsClient builds the service once from application default
// credentials (GOOGLE_APPLICATION_CREDENTIALS).
func sheetsClient(ctx context.Context) *sheets.Service {
	sheetsOnce.Do(func() {
		svc, err := sheets.NewService(ctx)
		if err != nil {
			log.Printf("sheets mirror disabled, could not build client: %v", err)
			return
		}
		sheetsService = svc
	})
	return sheetsService
}

// HandleSheetsAppendTask appends the mirrored row. Every failure path
// logs and returns nil: the mirror is never retried and never fails the
// primary flow.
func HandleSheetsAppendTask(ctx context.Context, t *asynq.Task) error {
	var payload SheetsAppendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Printf("error decoding sheets append payload: %v", err)
		return nil
	}

	spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil
	}

	svc := sheetsClient(ctx)
	if svc == nil {
		return nil
	}

	valueRange := &sheets.ValueRange{Values: [][]any{payload.Values}}

	_, err := svc.Spreadsheets.Values.Append(spreadsheetID, "A:Z", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("error mirroring row to sheet: %v", err)
	}

	return nil
}
