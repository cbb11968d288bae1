package providers

// Slack: slack-status.com/api/v2.0.0/current
type slackCurrent struct {
	Status          string          `json:"status"`
	ActiveIncidents []slackIncident `json:"active_incidents"`
}

type slackIncident struct {
	ID          flexString `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	DateCreated string     `json:"date_created"`
	DateUpdated string     `json:"date_updated"`
}

func parseSlack(c slackCurrent) Result {
	out := Result{Status: StatusDegraded}
	if c.Status == "ok" {
		out.Status = StatusOperational
	}
	active := c.ActiveIncidents
	if len(active) > maxIncidents {
		active = active[:maxIncidents]
	}
	out.Incidents = make([]Incident, 0, len(active))
	for _, in := range active {
		out.Incidents = append(out.Incidents, Incident{
			ID:        string(in.ID),
			Name:      firstNonEmpty(in.Title, "Incident"),
			Status:    firstNonEmpty(in.Status, "investigating"),
			Impact:    firstNonEmpty(in.Type, "incident"),
			CreatedAt: parseTime(in.DateCreated, epoch),
			UpdatedAt: parseTime(in.DateUpdated, epoch),
		})
	}
	return out
}
