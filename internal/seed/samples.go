// AngelaMos | 2026
// samples.go

package seed

import (
	"github.com/carterperez-dev/startup-perks/internal/deal"
)

func SampleDeals() []deal.Deal {
	return []deal.Deal{
		{
			Title:               "AWS Credits for Startups",
			Description:         "Get $100,000 in AWS credits to build your startup infrastructure.",
			Partner:             "Amazon Web Services",
			Category:            "Cloud Services",
			AccessLevel:         deal.AccessPublic,
			EligibilityCriteria: "Must be a registered startup with less than 2 years in operation",
			Discount:            "$100,000 credits",
		},
		{
			Title:               "Premium Slack Plan",
			Description:         "Free premium Slack plan for 2 years.",
			Partner:             "Slack",
			Category:            "Productivity",
			AccessLevel:         deal.AccessLocked,
			EligibilityCriteria: "Verified startup founders only",
			Discount:            "2 years free",
		},
		{
			Title:               "Google Workspace Business Starter",
			Description:         "Free Google Workspace for your team.",
			Partner:             "Google",
			Category:            "Productivity",
			AccessLevel:         deal.AccessPublic,
			EligibilityCriteria: "Startup teams with 2+ members",
			Discount:            "Free for 1 year",
		},
		{
			Title:               "Stripe Atlas Program",
			Description:         "Incorporation services and banking setup for international startups.",
			Partner:             "Stripe",
			Category:            "Financial Services",
			AccessLevel:         deal.AccessLocked,
			EligibilityCriteria: "Verified startup with international operations",
			Discount:            "Discounted incorporation fees",
		},
	}
}
