package rules

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catchrec/internal/landings"
	"catchrec/internal/trade"
)

// StdReportMapper produces the domain report payload for a certificate. The
// payload shape mirrors the rule library's documented contract; only the
// fields this core consumes are guaranteed.
type StdReportMapper struct{}

type reportLanding struct {
	SpeciesCode  string    `json:"speciesCode"`
	State        string    `json:"state"`
	Presentation string    `json:"presentation"`
	LandingDate  time.Time `json:"landingDate"`
	RSSNumber    string    `json:"rssNumber"`
	Status       string    `json:"status"`
	Weight       float64   `json:"weight"`
	LiveWeight   float64   `json:"liveWeight"`
	HasSalesNote *bool     `json:"hasSalesNote,omitempty"`
}

func (StdReportMapper) MapToReport(cert landings.Certificate, group []landings.ValidatedLandingRecord) ([]byte, error) {
	mapped := make([]reportLanding, len(group))
	for i, rec := range group {
		mapped[i] = reportLanding{
			SpeciesCode:  rec.SpeciesCode,
			State:        rec.State,
			Presentation: rec.Presentation,
			LandingDate:  rec.LandingDate,
			RSSNumber:    rec.RSSNumber,
			Status:       string(rec.Status),
			Weight:       rec.Weight,
			LiveWeight:   rec.LiveWeight,
			HasSalesNote: rec.HasSalesNote,
		}
	}
	payload, err := json.Marshal(map[string]any{
		"documentNumber": cert.DocumentNumber,
		"documentType":   cert.DocumentType,
		"exporterName":   cert.ExporterName,
		"landings":       mapped,
	})
	if err != nil {
		return nil, fmt.Errorf("encode report payload: %w", err)
	}
	return payload, nil
}

// StdTradeMapper shapes the trade-export payload. correlationId is taken from
// the mapped case when present so resubmissions correlate, otherwise minted
// fresh.
type StdTradeMapper struct{}

func (StdTradeMapper) MapToTradePayload(cert landings.Certificate, mappedCase map[string]any, queryResults []trade.QueryResult) (map[string]any, error) {
	correlationID, _ := mappedCase["correlationId"].(string)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	payload := map[string]any{
		"correlationId":  correlationID,
		"documentNumber": cert.DocumentNumber,
		"documentType":   string(cert.DocumentType),
		"case":           mappedCase,
	}
	if queryResults != nil {
		results := make([]map[string]any, len(queryResults))
		for i, r := range queryResults {
			results[i] = map[string]any{"status": r.Status}
		}
		payload["landingResults"] = results
	}
	return payload, nil
}
