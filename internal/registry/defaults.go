package registry

import "github.com/conradoqg/cloudstatus/internal/providers"

// Defaults is the built-in provider table used when the config lists none.
func Defaults() []providers.ProviderConfig {
	return []providers.ProviderConfig{
		{
			ID:          "gcp",
			Name:        "Google Cloud Platform",
			Description: "Compute, Storage, Networking",
			URL:         "https://status.cloud.google.com/",
			APIURL:      "https://status.cloud.google.com/incidents.json",
			Format:      providers.FormatGoogle,
		},
		{
			ID:          "google-workspace",
			Name:        "Google Workspace",
			Description: "Gmail, Drive, Meet, Calendar",
			URL:         "https://www.google.com/appsstatus/dashboard/",
			APIURL:      "https://www.google.com/appsstatus/dashboard/incidents.json",
			Format:      providers.FormatGoogle,
		},
		{
			ID:          "cloudflare",
			Name:        "Cloudflare",
			Description: "CDN, DNS, DDoS Protection",
			URL:         "https://www.cloudflarestatus.com/",
			APIURL:      "https://www.cloudflarestatus.com/api/v2/summary.json",
			Format:      providers.FormatStatuspage,
		},
		{
			ID:          "datadog",
			Name:        "Datadog",
			Description: "Monitoring & Analytics",
			URL:         "https://status.datadoghq.com/",
			APIURL:      "https://status.datadoghq.com/api/v2/summary.json",
			Format:      providers.FormatStatuspage,
		},
		{
			ID:          "github",
			Name:        "GitHub",
			Description: "Git, Actions, Packages",
			URL:         "https://www.githubstatus.com/",
			APIURL:      "https://www.githubstatus.com/api/v2/summary.json",
			Format:      providers.FormatStatuspage,
		},
		{
			ID:          "salesforce",
			Name:        "Salesforce",
			Description: "CRM & Cloud Services",
			URL:         "https://status.salesforce.com/",
			APIURL:      "https://api.status.salesforce.com/v1/incidents/active",
			Format:      providers.FormatSalesforce,
		},
		{
			ID:          "slack",
			Name:        "Slack",
			Description: "Team Communication",
			URL:         "https://slack-status.com/",
			APIURL:      "https://slack-status.com/api/v2.0.0/current",
			Format:      providers.FormatSlack,
		},
		{
			ID:          "atlassian",
			Name:        "Atlassian",
			Description: "Jira, Confluence, Bitbucket",
			URL:         "https://status.atlassian.com/",
			APIURL:      "https://status.atlassian.com/api/v2/summary.json",
			Format:      providers.FormatStatuspage,
		},
		{
			ID:          "aws",
			Name:        "Amazon Web Services",
			Description: "EC2, S3, Lambda, RDS",
			URL:         "https://health.aws.amazon.com/",
			APIURL:      "https://status.aws.amazon.com/rss/all.rss",
			Format:      providers.FormatRSS,
		},
		{
			ID:          "azure",
			Name:        "Microsoft Azure",
			Description: "Compute, Storage, AI",
			URL:         "https://azure.status.microsoft/en-us/status",
			APIURL:      "https://rssfeed.azure.status.microsoft/en-us/status/feed/",
			Format:      providers.FormatRSS,
			// the feed host has served an incomplete certificate chain
			InsecureSkipVerify: true,
		},
	}
}
