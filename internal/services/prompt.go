package services

import (
	"fmt"
	"strings"

	"blgs-backend/internal/models"
)

// RenderSystemPrompt builds the sales assistant's system instruction from the
// business facts, so prices and benchmarks in answers always match the page.
func RenderSystemPrompt(facts *models.Facts) string {
	var b strings.Builder

	// Layer 1: Role
	b.WriteString(fmt.Sprintf("You are the Lead Sales Consultant for '%s'", facts.Company))
	if facts.Founder != "" {
		b.WriteString(fmt.Sprintf(" (founded by %s)", facts.Founder))
	}
	b.WriteString(".\n\n")

	// Layer 2: Hero offering
	li := facts.LinkedIn
	if li.StandardPrice > 0 {
		b.WriteString("Our HERO offering is LinkedIn DM Outreach. We focus on high-quality 1:1 personalized conversations with decision-makers.\n\n")
		b.WriteString("Core Services:\n")
		b.WriteString("1. LinkedIn DM Outreach (Hero Offering):\n")
		if li.IntroPrice > 0 && li.IntroMonths > 0 {
			b.WriteString(fmt.Sprintf("   - Pricing: $%d/mo per profile for the first %d months (introductory rate), then $%d/mo from month %d onwards.\n",
				li.IntroPrice, li.IntroMonths, li.StandardPrice, li.IntroMonths+1))
		} else {
			b.WriteString(fmt.Sprintf("   - Pricing: $%d/mo per profile.\n", li.StandardPrice))
		}
		if li.Rationale != "" {
			b.WriteString(fmt.Sprintf("   - Philosophy: %q\n", li.Rationale))
		}
		var marks []string
		if li.ReachPerMonth != "" {
			marks = append(marks, li.ReachPerMonth+" reach/mo")
		}
		if li.AcceptanceRate != "" {
			marks = append(marks, li.AcceptanceRate+" acceptance")
		}
		if li.ReplyRate != "" {
			marks = append(marks, li.ReplyRate+" reply rate")
		}
		if len(marks) > 0 {
			b.WriteString("   - Benchmarks: " + strings.Join(marks, ", ") + ".")
			if li.ConversionMultiplier > 0 {
				b.WriteString(fmt.Sprintf(" %dX conversion vs email.", li.ConversionMultiplier))
			}
			b.WriteString("\n")
		}
		if len(li.Tech) > 0 {
			b.WriteString("   - Tech: " + strings.Join(li.Tech, ", ") + ".\n")
		}
		if li.Precondition != "" {
			b.WriteString("   - Precondition: " + li.Precondition + "\n")
		}
		b.WriteString("2. Multi-channel Email Marketing:\n")
	} else {
		b.WriteString("Pricing Plans:\n")
	}

	// Layer 3: Email plans
	for _, p := range facts.Plans {
		b.WriteString(fmt.Sprintf("   - %s ($%d%s).", p.Name, p.Price, planPeriod(p.Period)))
		if p.Focus != "" {
			b.WriteString(" " + p.Focus + " focus.")
		}
		if p.Volume != "" {
			b.WriteString(" " + p.Volume + ".")
		}
		if p.Summary != "" {
			b.WriteString(" " + p.Summary)
		}
		b.WriteString("\n")
		if len(p.Features) > 0 {
			b.WriteString("     Includes: " + strings.Join(p.Features, "; ") + ".\n")
		}
	}
	b.WriteString("\n")

	// Layer 4: Timeline
	if len(facts.Phases) > 0 {
		b.WriteString("Timeline & Phases:\n")
		for i, ph := range facts.Phases {
			b.WriteString(fmt.Sprintf("- Phase %d: %s", i+1, ph.Name))
			if ph.Duration != "" && ph.Duration != "ongoing" {
				b.WriteString(" (" + ph.Duration + ")")
			}
			b.WriteString(".")
			if ph.Description != "" {
				b.WriteString(" " + ph.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Layer 5: Sales philosophy
	b.WriteString("Sales Philosophy:\n")
	bm := facts.Benchmarks
	if bm.MedianROIPercent > 0 {
		b.WriteString(fmt.Sprintf("- Mention our ROI achievements: Median %d%% ROI in %d months", bm.MedianROIPercent, bm.ROIMonths))
		if bm.MaxROIPercent > 0 {
			b.WriteString(fmt.Sprintf(", up to %d%% for some clients", bm.MaxROIPercent))
		}
		b.WriteString(".\n")
	}
	if bm.VisibilityPercent > 0 {
		b.WriteString(fmt.Sprintf("- Visibility benchmarks: We've achieved %d%% visibility.\n", bm.VisibilityPercent))
	}
	for _, line := range facts.Philosophy {
		b.WriteString("- " + line + "\n")
	}

	// Layer 6: Call to action
	if facts.CalendarURL != "" {
		b.WriteString("- Always encourage booking a call via our calendar for a custom strategy session: " + facts.CalendarURL + "\n")
	}
	b.WriteString("- Only quote prices and figures listed above. If asked about something not covered, offer the strategy call instead of guessing.\n")

	return b.String()
}

func planPeriod(period string) string {
	if period == "" {
		return "/mo"
	}
	return period
}
