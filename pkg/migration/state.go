package migration

import (
	"sync"
)

// EntityType identifies the kind of source entity an identifier belongs to.
type EntityType string

const (
	EntityIssue        EntityType = "issue"
	EntityMergeRequest EntityType = "merge_request"
	EntityMilestone    EntityType = "milestone"
)

// State is the run-scoped identifier mapping built up while entities are
// created on the destination. It is passed explicitly to every migrator, never
// held as a global, so the pipeline stays testable and re-entrant. A single
// mutex guards all writes; stages run sequentially but comment replay may be
// parallelized across entities later.
type State struct {
	mu               sync.Mutex
	ids              map[EntityType]map[int]int
	milestoneNumbers map[string]int
}

func NewState() *State {
	return &State{
		ids:              make(map[EntityType]map[int]int),
		milestoneNumbers: make(map[string]int),
	}
}

// Record stores the destination identifier assigned to a source entity.
func (s *State) Record(entity EntityType, sourceID, destID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.ids[entity]
	if !ok {
		byID = make(map[int]int)
		s.ids[entity] = byID
	}
	byID[sourceID] = destID
}

// Lookup returns the destination identifier for a source entity, if it has
// been migrated already.
func (s *State) Lookup(entity EntityType, sourceID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	destID, ok := s.ids[entity][sourceID]
	return destID, ok
}

// RecordMilestoneTitle stores the destination milestone number under the
// milestone title. GitLab issues carry their milestone by title while GitHub
// wants a number on issue creation.
func (s *State) RecordMilestoneTitle(title string, destNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.milestoneNumbers[title] = destNumber
}

// MilestoneNumber returns the destination milestone number for a title.
func (s *State) MilestoneNumber(title string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	number, ok := s.milestoneNumbers[title]
	return number, ok
}
