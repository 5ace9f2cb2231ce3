package domain

import "time"

// ProjectStatus represents the lifecycle state of a construction project.
type ProjectStatus string

const (
	StatusPlanned    ProjectStatus = "planned"
	StatusApproved   ProjectStatus = "approved"
	StatusInProgress ProjectStatus = "in_progress"
	StatusSuspended  ProjectStatus = "suspended"
	StatusCompleted  ProjectStatus = "completed"
	StatusCancelled  ProjectStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[ProjectStatus][]ProjectStatus{
	StatusPlanned:    {StatusApproved, StatusCancelled},
	StatusApproved:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusSuspended, StatusCompleted},
	StatusSuspended:  {StatusInProgress, StatusCancelled},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Section is a trade within a project, carrying a weight (share of the
// contract, in percent) and its own completion percentage.
type Section struct {
	ID       string  `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Trade    string  `json:"trade" bson:"trade"`
	Weight   float64 `json:"weight" bson:"weight"`
	Progress float64 `json:"progress" bson:"progress"`
}

// Project is the core aggregate root: one monitored contract.
type Project struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	ContractNumber string        `json:"contract_number" bson:"contract_number"`
	Name           string        `json:"name" bson:"name"`
	DistrictID     string        `json:"district_id" bson:"district_id"`
	Description    string        `json:"description,omitempty" bson:"description,omitempty"`
	Budget         float64       `json:"budget" bson:"budget"`
	Status         ProjectStatus `json:"status" bson:"status"`
	Sections       []Section     `json:"sections" bson:"sections"`
	Progress       float64       `json:"progress" bson:"progress"`
	CreatedBy      string        `json:"created_by" bson:"created_by"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
}

// WeightedProgress computes overall completion as the weight-weighted average
// of section progress. A project with no sections (or zero total weight)
// reports zero.
func (p *Project) WeightedProgress() float64 {
	var sum, total float64
	for _, s := range p.Sections {
		sum += s.Weight * s.Progress
		total += s.Weight
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// SectionByID returns the section with the given id, or nil.
func (p *Project) SectionByID(id string) *Section {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return &p.Sections[i]
		}
	}
	return nil
}
