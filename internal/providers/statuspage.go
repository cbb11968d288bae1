package providers

// Atlassian Statuspage summary.json (also served by Cloudflare, Datadog,
// GitHub and Atlassian itself).
type spSummary struct {
	Status struct {
		Indicator   string `json:"indicator"`
		Description string `json:"description"`
	} `json:"status"`
	Incidents []spIncident `json:"incidents"`
}

type spIncident struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	Impact          string `json:"impact"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	Shortlink       string `json:"shortlink"`
	IncidentUpdates []struct {
		Body      string `json:"body"`
		CreatedAt string `json:"created_at"`
		Status    string `json:"status"`
	} `json:"incident_updates"`
}

func parseStatuspage(s spSummary) Result {
	out := Result{Status: mapStatuspage(s.Status.Indicator, len(s.Incidents))}
	incs := s.Incidents
	if len(incs) > maxIncidents {
		incs = incs[:maxIncidents]
	}
	out.Incidents = make([]Incident, 0, len(incs))
	for _, in := range incs {
		inc := Incident{
			ID:        in.ID,
			Name:      in.Name,
			Status:    in.Status,
			Impact:    in.Impact,
			CreatedAt: parseTime(in.CreatedAt, epoch),
			UpdatedAt: parseTime(in.UpdatedAt, epoch),
			Shortlink: in.Shortlink,
		}
		for _, u := range in.IncidentUpdates {
			inc.Updates = append(inc.Updates, IncidentUpdate{
				Body:      u.Body,
				CreatedAt: parseTime(u.CreatedAt, epoch),
				Status:    u.Status,
			})
		}
		out.Incidents = append(out.Incidents, inc)
	}
	return out
}

// mapStatuspage classifies the page-level indicator. A page with open
// incidents but no indicator above "none" is still a partial outage.
func mapStatuspage(indicator string, openIncidents int) ProviderStatus {
	switch indicator {
	case "critical", "major":
		return StatusMajorOutage
	case "minor":
		return StatusDegraded
	}
	if openIncidents > 0 {
		return StatusPartialOutage
	}
	return StatusOperational
}
