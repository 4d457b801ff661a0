package dosimetry

import (
	"regexp"
	"strings"

	"github.com/microsievert/dosimetria/internal/domain"
)

var (
	controlLabel = regexp.MustCompile(`(?i)^\s*CONTROL\b`)
	dotRuns      = regexp.MustCompile(`\.+`)
)

// ExpandRoster expands every populated assignment slot of every participant,
// preserving roster order. Slots with an empty or "NAN" code are inert.
// Control-ness is resolved here, explicitly, from the nominal period label.
func ExpandRoster(participants []domain.Participant) []domain.Assignment {
	var assignments []domain.Assignment
	for _, p := range participants {
		for _, slot := range p.Slots {
			code := strings.ToUpper(strings.TrimSpace(slot.DosimeterCode))
			if code == "" || code == "NAN" {
				continue
			}

			label := strings.ToUpper(slot.PeriodLabel)
			a := domain.Assignment{
				Person:        p.Person,
				Company:       p.Company,
				DosimeterCode: code,
			}
			if controlLabel.MatchString(label) {
				a.Period = domain.PeriodControl
				a.IsControl = true
			} else {
				period := dotRuns.ReplaceAllString(label, ".")
				a.Period = strings.TrimSpace(strings.TrimRight(period, "."))
			}

			assignments = append(assignments, a)
		}
	}
	return assignments
}
