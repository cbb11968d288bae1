package providers

import (
	"bytes"
	"encoding/json"
	"strings"
)

// flexString accepts either a JSON string or a JSON number. Salesforce and
// Slack both send numeric incident ids.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(strings.TrimSpace(n.String()))
	return nil
}

// Salesforce Trust: api.status.salesforce.com/v1/incidents/active
type sfIncident struct {
	ID      flexString `json:"id"`
	Message struct {
		IncidentTitle  string `json:"incidentTitle"`
		IncidentStatus string `json:"incidentStatus"`
		Severity       string `json:"severity"`
		CreatedDate    string `json:"createdDate"`
		UpdatedDate    string `json:"updatedDate"`
	} `json:"message"`
}

func parseSalesforce(incidents []sfIncident) Result {
	out := Result{Status: StatusOperational}
	if len(incidents) > 0 {
		out.Status = StatusPartialOutage
	}
	active := incidents
	if len(active) > maxIncidents {
		active = active[:maxIncidents]
	}
	out.Incidents = make([]Incident, 0, len(active))
	for _, in := range active {
		m := in.Message
		out.Incidents = append(out.Incidents, Incident{
			ID:        string(in.ID),
			Name:      firstNonEmpty(m.IncidentTitle, "Incident"),
			Status:    firstNonEmpty(m.IncidentStatus, "unknown"),
			Impact:    firstNonEmpty(m.Severity, "medium"),
			CreatedAt: parseTime(m.CreatedDate, epoch),
			UpdatedAt: parseTime(m.UpdatedDate, epoch),
		})
	}
	return out
}
