package usecase

import (
	"fmt"
	"strings"
	"time"

	"questboard/internal/quest"
)

// validateCreate is the single validation gate for quest creation; the direct
// HTTP operation and the agent tool both funnel through it. Every violated
// constraint is collected.
func (uc *implUseCase) validateCreate(input quest.CreateInput) (start, end time.Time, err error) {
	var violations []string

	name := strings.TrimSpace(input.Name)
	if name == "" {
		violations = append(violations, "name must not be empty")
	} else if len(name) > uc.cfg.NameMaxLen {
		violations = append(violations, fmt.Sprintf("name exceeds %d characters", uc.cfg.NameMaxLen))
	}

	desc := strings.TrimSpace(input.Description)
	if desc == "" {
		violations = append(violations, "description must not be empty")
	} else if len(desc) > uc.cfg.DescriptionMaxLen {
		violations = append(violations, fmt.Sprintf("description exceeds %d characters", uc.cfg.DescriptionMaxLen))
	}

	start, startErr := time.Parse(time.RFC3339, input.StartTime)
	if startErr != nil {
		violations = append(violations, "startTime is not a valid RFC3339 timestamp")
	}

	end, endErr := time.Parse(time.RFC3339, input.EndTime)
	if endErr != nil {
		violations = append(violations, "endTime is not a valid RFC3339 timestamp")
	}

	if startErr == nil && endErr == nil && !end.After(start) {
		violations = append(violations, "endTime must be after startTime")
	}

	if input.XP < quest.XPMin || input.XP > quest.XPMax {
		violations = append(violations, fmt.Sprintf("xp must be between %d and %d", quest.XPMin, quest.XPMax))
	}

	if len(violations) > 0 {
		return time.Time{}, time.Time{}, &quest.ValidationError{Violations: violations}
	}

	return start, end, nil
}
