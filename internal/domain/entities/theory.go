package entities

import "time"

// Theory is a fan "what if" theory. Upvotes is a denormalized counter that
// must always equal the number of Vote rows for the theory; it is only ever
// mutated together with a vote row inside one transaction.
type Theory struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	BranchingPoint    string    `json:"branching_point"`
	AlternateTimeline string    `json:"alternate_timeline"`
	CreatorID         string    `json:"creator_id"`
	IsApproved        bool      `json:"is_approved"`
	Upvotes           int       `json:"upvotes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Vote records one user's upvote on a theory. At most one row exists per
// (user, theory) pair; voting is a toggle, not an accumulator.
type Vote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TheoryID  string    `json:"theory_id"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteResult is the post-toggle state returned to the caller.
type VoteResult struct {
	Upvoted bool `json:"upvoted"`
	Upvotes int  `json:"upvotes"`
}
