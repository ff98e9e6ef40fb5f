package plan

import (
	"context"
	"time"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Days returns how many posts a plan for this period carries.
func (p Period) Days() int {
	if p == PeriodMonth {
		return 30
	}
	return 7
}

type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneCreative     Tone = "creative"
	ToneProfessional Tone = "professional"
	ToneStrict       Tone = "strict"
	ToneHumorous     Tone = "humorous"
)

type Goal string

const (
	GoalAcquisition Goal = "acquisition"
	GoalRetention   Goal = "retention"
	GoalTrust       Goal = "trust"
	GoalSales       Goal = "sales"
)

type PostType string

const (
	TypePost  PostType = "post"
	TypeReels PostType = "reels"
	TypeStory PostType = "story"
)

type PostStatus string

const (
	StatusPending   PostStatus = "pending"
	StatusApproved  PostStatus = "approved"
	StatusPublished PostStatus = "published"
)

// Post is the unit of content. Lifecycle transitions always produce a new
// value; the plan service swaps posts under its own lock.
type Post struct {
	ID            string     `json:"id"`
	Day           int        `json:"day"`
	Date          time.Time  `json:"date"`
	Title         string     `json:"title"`
	Type          PostType   `json:"type"`
	Content       string     `json:"content"`
	Script        string     `json:"script,omitempty"`
	ImagePrompt   string     `json:"image_prompt,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	Status        PostStatus `json:"status"`
	RevisionCount int        `json:"revision_count"`
}

type AnalysisData struct {
	Competitors []string `json:"competitors"`
	Trends      []string `json:"trends"`
	Summary     string   `json:"summary"`
}

type ContentPlan struct {
	ID        string       `json:"id"`
	Niche     string       `json:"niche"`
	Period    Period       `json:"period"`
	Tone      Tone         `json:"tone"`
	Goal      Goal         `json:"goal"`
	Analysis  AnalysisData `json:"analysis"`
	Posts     []Post       `json:"posts"`
	CreatedAt time.Time    `json:"created_at"`
}

type GenerateRequest struct {
	Niche          string   `json:"niche" form:"niche"`
	Period         Period   `json:"period" form:"period"`
	Tone           Tone     `json:"tone" form:"tone"`
	Goal           Goal     `json:"goal" form:"goal"`
	ReferenceMedia [][]byte `json:"-"`
}

type EditRequest struct {
	PostID   string `json:"post_id"`
	Feedback string `json:"feedback"`
}

type IPlanUsecase interface {
	Generate(ctx context.Context, request GenerateRequest) (ContentPlan, error)
	Current(ctx context.Context) (ContentPlan, error)
	Approve(ctx context.Context, postID string) (Post, error)
	Edit(ctx context.Context, request EditRequest) (Post, error)
	// ApprovedPosts returns the approved subset ordered by day index.
	ApprovedPosts(ctx context.Context) ([]Post, error)
	// MarkPublished is called by the delivery orchestrator per sent post.
	MarkPublished(ctx context.Context, postID string) error
}
