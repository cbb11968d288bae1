package providers

// Google Cloud and Google Workspace publish their incident history as a flat
// array at .../incidents.json, newest first. Each record carries its updates
// newest first as well.
type gcpIncident struct {
	ID           string `json:"id"`
	ExternalDesc string `json:"external_desc"`
	Severity     string `json:"severity"`
	Begin        string `json:"begin"`
	Created      string `json:"created"`
	Modified     string `json:"modified"`
	Updates      []struct {
		Text   string `json:"text"`
		When   string `json:"when"`
		Status string `json:"status"`
	} `json:"updates"`
}

// gcpResolved is the update status Google uses once an incident is over.
const gcpResolved = "AVAILABLE"

func parseGCP(incidents []gcpIncident) Result {
	recent := incidents
	if len(recent) > maxIncidents {
		recent = recent[:maxIncidents]
	}
	out := Result{Status: StatusOperational, Incidents: make([]Incident, 0, len(recent))}
	for _, in := range recent {
		latest := ""
		if len(in.Updates) > 0 {
			latest = in.Updates[0].Status
		}
		// no updates at all still counts as active
		if latest != gcpResolved {
			out.Status = StatusPartialOutage
		}
		inc := Incident{
			ID:        in.ID,
			Name:      firstNonEmpty(in.ExternalDesc, "Incident"),
			Status:    firstNonEmpty(latest, "unknown"),
			Impact:    firstNonEmpty(in.Severity, "medium"),
			CreatedAt: parseTime(firstNonEmpty(in.Begin, in.Created), epoch),
			UpdatedAt: parseTime(in.Modified, epoch),
		}
		for _, u := range in.Updates {
			inc.Updates = append(inc.Updates, IncidentUpdate{
				Body:      u.Text,
				CreatedAt: parseTime(u.When, epoch),
				Status:    u.Status,
			})
		}
		out.Incidents = append(out.Incidents, inc)
	}
	return out
}
