package services

import (
	"sync"
	"time"

	"zc_toolbox_bot/models"
)

type FlowState int

const (
	StateIdle FlowState = iota
	StateSelectFeature
	StateAwaitCourse
	StateAwaitDescription
)

// Conversation is one user's in-progress report flow. Feature and
// CourseCode are only meaningful in the states that set them.
type Conversation struct {
	State      FlowState
	Feature    models.Feature
	CourseCode string
	UpdatedAt  time.Time
}

// Tracker holds each user's pending conversation. Both the update loop
// and the reaper goroutine touch the map.
type Tracker struct {
	mu            sync.Mutex
	conversations map[int64]*Conversation
	now           func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		conversations: make(map[int64]*Conversation),
		now:           time.Now,
	}
}

// Get returns a copy of the user's conversation, or an idle one if no
// flow is in progress.
func (t *Tracker) Get(userID int64) Conversation {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.conversations[userID]; ok {
		return *c
	}
	return Conversation{State: StateIdle}
}

// Set stores the conversation and stamps its last-activity time.
func (t *Tracker) Set(userID int64, c Conversation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c.UpdatedAt = t.now()
	t.conversations[userID] = &c
}

// Reset returns the user to idle. Any collected fields are discarded.
func (t *Tracker) Reset(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.conversations, userID)
}

// ExpireIdle drops conversations whose last activity is older than the
// limit and reports how many were dropped.
func (t *Tracker) ExpireIdle(olderThan time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-olderThan)
	expired := 0
	for id, c := range t.conversations {
		if c.UpdatedAt.Before(cutoff) {
			delete(t.conversations, id)
			expired++
		}
	}
	return expired
}
