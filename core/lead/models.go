package lead

import (
	"time"

	"github.com/trezcool/gradespark/core"
)

// DefaultFeature names the locked feature when a lead is not tied to a specific one.
const DefaultFeature = "Full Version Features"

// form options; the first of each list is the default
var (
	Roles = []string{
		"I'm a Teacher",
		"I'm a School Administrator",
	}
	Sizes = []string{
		"Just me (1 teacher)",
		"Small team (2-5 teachers)",
		"Department (6-20 teachers)",
		"School-wide (20+ teachers)",
	}
	Timelines = []string{
		"Ready now",
		"This semester",
		"Next school year",
		"Just exploring",
	}
)

// Lead is a captured early-access request, as posted to the webhook and kept in the local backup.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	School    string    `json:"school"`
	Role      string    `json:"role"`
	Size      string    `json:"size"`
	Timeline  string    `json:"timeline"`
	Feature   string    `json:"feature"`
	Timestamp time.Time `json:"timestamp"`
	Platform  string    `json:"platform"`
}

// NewLead contains the form input needed to capture a Lead.
type NewLead struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	School   string `json:"school" validate:"required,notblank"`
	Role     string `json:"role" validate:"leadrole"`
	Size     string `json:"size" validate:"leadsize"`
	Timeline string `json:"timeline" validate:"leadtimeline"`
	Feature  string `json:"feature"`
}

// Clean trims every field and fills empty options with their defaults.
func (nl *NewLead) Clean() {
	nl.Name = core.CleanString(nl.Name)
	nl.Email = core.CleanString(nl.Email)
	nl.School = core.CleanString(nl.School)
	nl.Role = orDefault(core.CleanString(nl.Role), Roles[0])
	nl.Size = orDefault(core.CleanString(nl.Size), Sizes[0])
	nl.Timeline = orDefault(core.CleanString(nl.Timeline), Timelines[0])
	nl.Feature = orDefault(core.CleanString(nl.Feature), DefaultFeature)
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}
