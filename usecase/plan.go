package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AzielCF/az-planner/config"
	domainPlan "github.com/AzielCF/az-planner/domains/plan"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/AzielCF/az-planner/pkg/imgworker"
	"github.com/AzielCF/az-planner/pkg/planmonitor"
	"github.com/AzielCF/az-planner/pkg/utils"
	engineDomain "github.com/AzielCF/az-planner/planengine/domain"
	"github.com/AzielCF/az-planner/validations"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type servicePlan struct {
	provider     engineDomain.AIProvider
	providerName string
	history      domainPlan.IHistoryStore
	pool         *imgworker.ImageWorkerPool

	mu      sync.Mutex
	current *domainPlan.ContentPlan
}

func NewPlanService(provider engineDomain.AIProvider, providerName string, history domainPlan.IHistoryStore, pool *imgworker.ImageWorkerPool) domainPlan.IPlanUsecase {
	return &servicePlan{
		provider:     provider,
		providerName: providerName,
		history:      history,
		pool:         pool,
	}
}

var analysisSchema = &engineDomain.Schema{
	Type: "object",
	Properties: map[string]*engineDomain.Schema{
		"competitors": {Type: "array", Items: &engineDomain.Schema{Type: "string"}},
		"trends":      {Type: "array", Items: &engineDomain.Schema{Type: "string"}},
		"summary":     {Type: "string"},
	},
	Required: []string{"competitors", "trends", "summary"},
}

var planSchema = &engineDomain.Schema{
	Type: "array",
	Items: &engineDomain.Schema{
		Type: "object",
		Properties: map[string]*engineDomain.Schema{
			"title":        {Type: "string"},
			"type":         {Type: "string", Enum: []string{"post", "reels", "story"}},
			"content":      {Type: "string"},
			"script":       {Type: "string"},
			"image_prompt": {Type: "string", Description: "Visual description for the post image"},
			"day":          {Type: "integer"},
		},
		Required: []string{"title", "type", "content", "day"},
	},
}

var editSchema = &engineDomain.Schema{
	Type: "object",
	Properties: map[string]*engineDomain.Schema{
		"content":      {Type: "string"},
		"script":       {Type: "string"},
		"image_prompt": {Type: "string"},
	},
	Required: []string{"content"},
}

// rawPlanItem mirrors the generation schema before finalization.
type rawPlanItem struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	Script      string `json:"script"`
	ImagePrompt string `json:"image_prompt"`
	Day         int    `json:"day"`
}

type rawEditResult struct {
	Content     string `json:"content"`
	Script      string `json:"script"`
	ImagePrompt string `json:"image_prompt"`
}

// analyze runs the two dependent analysis calls: open-ended research first,
// then structuring into AnalysisData. Failure aborts the whole generation.
func (service *servicePlan) analyze(ctx context.Context, traceID, niche string) (domainPlan.AnalysisData, error) {
	researchPrompt := fmt.Sprintf(`Run a deep analysis of the "%s" niche.
Find the 3 main competitors, current news and trends right now.
Determine which kind of content gets the most engagement.`, niche)

	started := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, config.AICallTimeout)
	narrative, err := service.provider.Research(callCtx, researchPrompt)
	cancel()
	service.recordStage(traceID, "", "", "research", started, err)
	if err != nil {
		return domainPlan.AnalysisData{}, err
	}
	if strings.TrimSpace(narrative) == "" {
		return domainPlan.AnalysisData{}, pkgError.EmptyResponseError("research call returned no text")
	}

	structuringPrompt := fmt.Sprintf(`Turn this analysis into a JSON object with fields:
competitors (array),
trends (array),
summary (text).
Analysis: %s`, narrative)

	started = time.Now()
	callCtx, cancel = context.WithTimeout(ctx, config.AICallTimeout)
	structured, err := service.provider.Complete(callCtx, structuringPrompt, analysisSchema)
	cancel()
	service.recordStage(traceID, "", "", "structure", started, err)
	if err != nil {
		return domainPlan.AnalysisData{}, err
	}
	if strings.TrimSpace(structured) == "" {
		return domainPlan.AnalysisData{}, pkgError.EmptyResponseError("structuring call returned no text")
	}

	var analysis domainPlan.AnalysisData
	if err := json.Unmarshal([]byte(structured), &analysis); err != nil {
		return domainPlan.AnalysisData{}, pkgError.MalformedResultError(fmt.Sprintf("analysis did not match the expected shape: %v", err))
	}
	return analysis, nil
}

func (service *servicePlan) Generate(ctx context.Context, request domainPlan.GenerateRequest) (domainPlan.ContentPlan, error) {
	if err := validations.ValidateGeneratePlan(ctx, request); err != nil {
		return domainPlan.ContentPlan{}, err
	}

	traceID := uuid.NewString()
	days := request.Period.Days()
	logrus.Infof("[PLAN] Generating %d-day plan for niche %q (trace %s)", days, request.Niche, traceID)

	analysis, err := service.analyze(ctx, traceID, request.Niche)
	if err != nil {
		logrus.WithError(err).Errorf("[PLAN] Analysis failed for niche %q", request.Niche)
		return domainPlan.ContentPlan{}, err
	}

	forbidden, err := service.history.Relevant(ctx, request.Niche)
	if err != nil {
		logrus.WithError(err).Warn("[HISTORY] Could not load dedup hints, generating without them")
		forbidden = nil
	}

	prompt := buildPlanPrompt(request, days, analysis, forbidden)

	started := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, config.AICallTimeout)
	raw, err := service.provider.Complete(callCtx, prompt, planSchema)
	cancel()
	service.recordStage(traceID, "", "", "plan", started, err)
	if err != nil {
		return domainPlan.ContentPlan{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return domainPlan.ContentPlan{}, pkgError.EmptyResponseError("plan generation returned no text")
	}

	var items []rawPlanItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return domainPlan.ContentPlan{}, pkgError.MalformedResultError(fmt.Sprintf("plan did not parse as an item array: %v", err))
	}
	if len(items) != days {
		return domainPlan.ContentPlan{}, pkgError.MalformedResultError(fmt.Sprintf("expected %d items, got %d", days, len(items)))
	}

	posts := make([]domainPlan.Post, len(items))
	today := time.Now().Truncate(24 * time.Hour)
	for i, item := range items {
		postType, ok := normalizePostType(item.Type)
		if !ok {
			return domainPlan.ContentPlan{}, pkgError.MalformedResultError(fmt.Sprintf("unknown item kind %q", item.Type))
		}
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Content) == "" {
			return domainPlan.ContentPlan{}, pkgError.MalformedResultError("item is missing a mandatory field")
		}
		posts[i] = domainPlan.Post{
			ID:          uuid.NewString(),
			Day:         item.Day,
			Title:       item.Title,
			Type:        postType,
			Content:     item.Content,
			Script:      item.Script,
			ImagePrompt: item.ImagePrompt,
			Status:      domainPlan.StatusPending,
		}
	}

	// Day indices must be exactly 1..days. A model that drifts gets reindexed
	// sequentially; uniqueness is a hard invariant downstream.
	if !dayIndicesValid(posts, days) {
		logrus.Warnf("[PLAN] Day indices out of contract, reindexing sequentially (trace %s)", traceID)
		for i := range posts {
			posts[i].Day = i + 1
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Day < posts[j].Day })
	for i := range posts {
		posts[i].Date = today.AddDate(0, 0, posts[i].Day-1)
	}

	plan := domainPlan.ContentPlan{
		ID:        uuid.NewString(),
		Niche:     request.Niche,
		Period:    request.Period,
		Tone:      request.Tone,
		Goal:      request.Goal,
		Analysis:  analysis,
		Posts:     posts,
		CreatedAt: time.Now(),
	}

	service.generateImages(ctx, traceID, &plan, request)

	for _, post := range plan.Posts {
		if err := service.history.Record(ctx, request.Niche, post.Title); err != nil {
			logrus.WithError(err).Warn("[HISTORY] Failed to record title")
		}
	}

	service.mu.Lock()
	service.current = &plan
	service.mu.Unlock()

	logrus.Infof("[PLAN] Plan %s ready with %d posts", plan.ID, len(plan.Posts))
	return plan, nil
}

// generateImages runs the per-post image batch on the worker pool. Items are
// independent: a failed render falls back to a deterministic placeholder and
// never aborts the siblings. Ordering by day is already fixed in the slice.
func (service *servicePlan) generateImages(ctx context.Context, traceID string, plan *domainPlan.ContentPlan, request domainPlan.GenerateRequest) {
	var wg sync.WaitGroup
	for i := range plan.Posts {
		i := i
		post := &plan.Posts[i]

		var ref [][]byte
		if n := len(request.ReferenceMedia); n > 0 {
			ref = [][]byte{request.ReferenceMedia[i%n]}
		}

		wg.Add(1)
		job := imgworker.ImageJob{
			PlanID: plan.ID,
			Day:    post.Day,
			Handler: func(jobCtx context.Context) error {
				defer wg.Done()
				service.renderPostImage(ctx, traceID, plan.ID, post, request.Tone, ref)
				return nil
			},
		}
		if service.pool == nil || !service.pool.TryDispatch(job) {
			// Queue full or no pool wired: render inline rather than drop.
			go job.Handler(ctx)
		}
	}
	wg.Wait()
}

func (service *servicePlan) renderPostImage(ctx context.Context, traceID, planID string, post *domainPlan.Post, tone domainPlan.Tone, refs [][]byte) {
	directive := post.ImagePrompt
	if strings.TrimSpace(directive) == "" {
		directive = fmt.Sprintf("An image for a social media %s titled %q", post.Type, post.Title)
	}
	directive = fmt.Sprintf("%s. Visual style: %s.", directive, tone)

	started := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, config.AIImageTimeout)
	imageBytes, err := service.provider.GenerateImage(callCtx, directive, refs)
	cancel()

	if err == nil && len(imageBytes) > 0 {
		path := filepath.Join(utils.GetMediaStoragePath(planID), fmt.Sprintf("day_%02d.png", post.Day))
		if writeErr := os.WriteFile(path, imageBytes, 0644); writeErr == nil {
			post.ImageURL = path
			service.recordImage(traceID, planID, post.ID, "ok", started, nil)
			return
		} else {
			err = writeErr
		}
	}

	post.ImageURL = placeholderImageURL(post.ID)
	service.recordImage(traceID, planID, post.ID, "fallback", started, err)
	logrus.WithError(err).Warnf("[IMAGE] Falling back to placeholder for day %d", post.Day)
}

func (service *servicePlan) Current(ctx context.Context) (domainPlan.ContentPlan, error) {
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.current == nil {
		return domainPlan.ContentPlan{}, pkgError.NotFoundError("no plan has been generated yet")
	}
	return *service.current, nil
}

func (service *servicePlan) Approve(ctx context.Context, postID string) (domainPlan.Post, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	post, idx, err := service.findPost(postID)
	if err != nil {
		return domainPlan.Post{}, err
	}
	if post.Status == domainPlan.StatusPublished {
		return domainPlan.Post{}, pkgError.ValidationError("a published post cannot change state")
	}

	post.Status = domainPlan.StatusApproved
	service.current.Posts[idx] = post
	return post, nil
}

func (service *servicePlan) Edit(ctx context.Context, request domainPlan.EditRequest) (domainPlan.Post, error) {
	if err := validations.ValidateEditPost(ctx, request); err != nil {
		return domainPlan.Post{}, err
	}

	service.mu.Lock()
	post, _, err := service.findPost(request.PostID)
	planID := ""
	if service.current != nil {
		planID = service.current.ID
	}
	service.mu.Unlock()
	if err != nil {
		return domainPlan.Post{}, err
	}

	// Published is terminal, same as in Approve.
	if post.Status == domainPlan.StatusPublished {
		return domainPlan.Post{}, pkgError.ValidationError("a published post cannot be edited")
	}

	// Quota is checked before any model call.
	if post.RevisionCount >= config.PostMaxRevisions {
		return domainPlan.Post{}, pkgError.QuotaExceededError(fmt.Sprintf("post %q already used its %d revisions", post.Title, config.PostMaxRevisions))
	}

	traceID := uuid.NewString()
	prompt := fmt.Sprintf(`Edit the post %q based on this feedback: %q.
Take the previous content into account: %s
Return an updated JSON object with fields content, script and image_prompt.`, post.Title, request.Feedback, post.Content)

	started := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, config.AICallTimeout)
	raw, err := service.provider.Complete(callCtx, prompt, editSchema)
	cancel()
	service.recordStage(traceID, planID, post.ID, "edit", started, err)
	if err != nil {
		return domainPlan.Post{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return domainPlan.Post{}, pkgError.EmptyResponseError("edit call returned no text")
	}

	var update rawEditResult
	if err := json.Unmarshal([]byte(raw), &update); err != nil {
		return domainPlan.Post{}, pkgError.MalformedResultError(fmt.Sprintf("edit result did not match the expected shape: %v", err))
	}
	if strings.TrimSpace(update.Content) == "" {
		return domainPlan.Post{}, pkgError.MalformedResultError("edit result is missing content")
	}

	revised := post
	revised.Content = update.Content
	if update.Script != "" {
		revised.Script = update.Script
	}
	if update.ImagePrompt != "" {
		revised.ImagePrompt = update.ImagePrompt
	}
	revised.RevisionCount++
	revised.Status = domainPlan.StatusPending

	// Second, independent image attempt. Failure keeps the previous image.
	directive := revised.ImagePrompt
	if strings.TrimSpace(directive) == "" {
		directive = fmt.Sprintf("An image for a social media %s titled %q", revised.Type, revised.Title)
	}
	started = time.Now()
	imgCtx, imgCancel := context.WithTimeout(ctx, config.AIImageTimeout)
	imageBytes, imgErr := service.provider.GenerateImage(imgCtx, directive, nil)
	imgCancel()
	if imgErr == nil && len(imageBytes) > 0 {
		path := filepath.Join(utils.GetMediaStoragePath(planID), fmt.Sprintf("%s_r%d.png", revised.ID, revised.RevisionCount))
		if writeErr := os.WriteFile(path, imageBytes, 0644); writeErr == nil {
			revised.ImageURL = path
			service.recordImage(traceID, planID, revised.ID, "ok", started, nil)
		} else {
			imgErr = writeErr
		}
	}
	if imgErr != nil || len(imageBytes) == 0 {
		service.recordImage(traceID, planID, revised.ID, "skipped", started, imgErr)
		logrus.WithError(imgErr).Infof("[IMAGE] Keeping previous image for post %s", revised.ID)
	}

	service.mu.Lock()
	defer service.mu.Unlock()
	// The plan may have been regenerated, or the post delivered, while the
	// calls were in flight.
	fresh, freshIdx, err := service.findPost(request.PostID)
	if err != nil {
		return domainPlan.Post{}, err
	}
	if fresh.Status == domainPlan.StatusPublished {
		return domainPlan.Post{}, pkgError.ValidationError("post was published while the edit was in flight")
	}
	service.current.Posts[freshIdx] = revised
	return revised, nil
}

func (service *servicePlan) ApprovedPosts(ctx context.Context) ([]domainPlan.Post, error) {
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.current == nil {
		return nil, pkgError.NotFoundError("no plan has been generated yet")
	}

	var approved []domainPlan.Post
	for _, post := range service.current.Posts {
		if post.Status == domainPlan.StatusApproved {
			approved = append(approved, post)
		}
	}
	return approved, nil
}

func (service *servicePlan) MarkPublished(ctx context.Context, postID string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	post, idx, err := service.findPost(postID)
	if err != nil {
		return err
	}
	post.Status = domainPlan.StatusPublished
	service.current.Posts[idx] = post
	return nil
}

// findPost must be called with the mutex held.
func (service *servicePlan) findPost(postID string) (domainPlan.Post, int, error) {
	if service.current == nil {
		return domainPlan.Post{}, 0, pkgError.NotFoundError("no plan has been generated yet")
	}
	for i, post := range service.current.Posts {
		if post.ID == postID {
			return post, i, nil
		}
	}
	return domainPlan.Post{}, 0, pkgError.NotFoundError(fmt.Sprintf("post %s not found in the current plan", postID))
}

func (service *servicePlan) recordStage(traceID, planID, postID, stage string, started time.Time, err error) {
	event := planmonitor.Event{
		TraceID:    traceID,
		PlanID:     planID,
		PostID:     postID,
		Provider:   service.providerName,
		Stage:      stage,
		Status:     "ok",
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		event.Status = "error"
		event.Error = err.Error()
	}
	planmonitor.Record(event)
}

func (service *servicePlan) recordImage(traceID, planID, postID, status string, started time.Time, err error) {
	event := planmonitor.Event{
		TraceID:    traceID,
		PlanID:     planID,
		PostID:     postID,
		Provider:   service.providerName,
		Stage:      "image",
		Status:     status,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	planmonitor.Record(event)
}

func buildPlanPrompt(request domainPlan.GenerateRequest, days int, analysis domainPlan.AnalysisData, forbidden []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day content plan for the %q niche in a %q tone of voice.\n", days, request.Niche, request.Tone)
	if request.Goal != "" {
		fmt.Fprintf(&b, "The plan must serve this marketing goal: %s.\n", request.Goal)
	}
	if len(analysis.Trends) > 0 {
		fmt.Fprintf(&b, "Take these trends into account: %s.\n", strings.Join(analysis.Trends, ", "))
	}
	if len(forbidden) > 0 {
		fmt.Fprintf(&b, "IMPORTANT: never repeat topics or titles that were already used before: %s. Create completely new and fresh content.\n", strings.Join(forbidden, ", "))
	}
	fmt.Fprintf(&b, "For each day invent a unique post, reels or story. Reels must carry a short video script. ")
	fmt.Fprintf(&b, "Every item needs an image_prompt describing its visual. ")
	fmt.Fprintf(&b, "Return the result as a JSON array of exactly %d objects with day indices 1 to %d.", days, days)
	return b.String()
}

func normalizePostType(raw string) (domainPlan.PostType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "post":
		return domainPlan.TypePost, true
	case "reels":
		return domainPlan.TypeReels, true
	case "story":
		return domainPlan.TypeStory, true
	}
	return "", false
}

func dayIndicesValid(posts []domainPlan.Post, days int) bool {
	seen := make(map[int]bool, days)
	for _, post := range posts {
		if post.Day < 1 || post.Day > days || seen[post.Day] {
			return false
		}
		seen[post.Day] = true
	}
	return len(seen) == days
}

func placeholderImageURL(seed string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/800/600", seed)
}
