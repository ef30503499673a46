package team

import (
	"fmt"
	"strings"
)

// Cohort identifies one age-group/gender bucket. All fuzzy matching and all
// ranking math is scoped to a single cohort.
type Cohort struct {
	AgeGroup string
	Gender   string
}

func (c Cohort) Validate() error {
	if strings.TrimSpace(c.AgeGroup) == "" {
		return fmt.Errorf("cohort age group is required")
	}
	if strings.TrimSpace(c.Gender) == "" {
		return fmt.Errorf("cohort gender is required")
	}
	return nil
}

func (c Cohort) String() string {
	return c.AgeGroup + "/" + c.Gender
}

// Team is one deduplicated real-world team. Provider-scoped identifiers map
// onto it through aliases; it is never hard-deleted, only deprecated by merge.
type Team struct {
	ID         string
	Name       string
	ClubName   string
	AgeGroup   string
	Gender     string
	Region     string
	Deprecated bool
	// MergedInto points at the surviving team. Set if and only if Deprecated.
	MergedInto string
}

func (t Team) Cohort() Cohort {
	return Cohort{AgeGroup: t.AgeGroup, Gender: t.Gender}
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if err := t.Cohort().Validate(); err != nil {
		return err
	}
	if t.Deprecated && t.MergedInto == "" {
		return fmt.Errorf("deprecated team must reference the team it was merged into")
	}
	if !t.Deprecated && t.MergedInto != "" {
		return fmt.Errorf("active team cannot carry a merged_into reference")
	}
	return nil
}
