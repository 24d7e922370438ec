package server

// #region imports
import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/dairylabs/milkmob/internal/engine"
	"github.com/dairylabs/milkmob/internal/mob"
	"github.com/dairylabs/milkmob/internal/validate"
)

// #endregion

// #region dto

type submitRequest struct {
	VideoID  string   `json:"video_id"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

type verdictDTO struct {
	Passed            bool               `json:"passed"`
	PerCriterion      map[string]float32 `json:"per_criterion"`
	FailedCriteria    []string           `json:"failed_criteria"`
	OverallConfidence float32            `json:"overall_confidence"`
}

type assignmentDTO struct {
	VideoID      string    `json:"video_id"`
	CategoryID   string    `json:"category_id"`
	MatchScore   float32   `json:"match_score"`
	SecondaryMob string    `json:"secondary_mob,omitempty"`
	AssignedAt   time.Time `json:"assigned_at"`
}

type relatedDTO struct {
	VideoID    string  `json:"video_id"`
	Similarity float32 `json:"similarity"`
}

type submitResponse struct {
	VideoID       string         `json:"video_id"`
	Verdict       verdictDTO     `json:"verdict"`
	Message       string         `json:"message"`
	Assignment    *assignmentDTO `json:"assignment"`
	CampaignTags  []string       `json:"campaign_tags,omitempty"`
	RelatedVideos []relatedDTO   `json:"related_videos,omitempty"`
}

type mobDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MemberCount int64  `json:"member_count"`
}

type statsDTO struct {
	CategoryID  string           `json:"category_id"`
	MemberCount int64            `json:"member_count"`
	KeywordHits map[string]int64 `json:"keyword_hits"`
	LastUpdated *time.Time       `json:"last_updated,omitempty"`
}

func toVerdictDTO(v validate.Verdict) verdictDTO {
	dto := verdictDTO{
		Passed:            v.Passed,
		PerCriterion:      make(map[string]float32, len(v.PerCriterion)),
		FailedCriteria:    []string{},
		OverallConfidence: v.OverallConfidence,
	}
	for kind, c := range v.PerCriterion {
		dto.PerCriterion[string(kind)] = c
	}
	for _, kind := range v.FailedCriteria {
		dto.FailedCriteria = append(dto.FailedCriteria, string(kind))
	}
	return dto
}

func toAssignmentDTO(a *mob.Assignment) *assignmentDTO {
	if a == nil {
		return nil
	}
	return &assignmentDTO{
		VideoID:      a.VideoID,
		CategoryID:   a.CategoryID,
		MatchScore:   a.MatchScore,
		SecondaryMob: a.SecondaryID,
		AssignedAt:   a.AssignedAt,
	}
}

// #endregion dto

// #region submit

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if req.VideoID == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "video_id is required"})
		return
	}

	result, err := s.engine.Process(r.Context(), engine.Submission{
		VideoID:  req.VideoID,
		Caption:  req.Caption,
		Hashtags: req.Hashtags,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	resp := submitResponse{
		VideoID:      result.VideoID,
		Verdict:      toVerdictDTO(result.Verdict),
		Message:      result.Message,
		Assignment:   toAssignmentDTO(result.Assignment),
		CampaignTags: result.Tags.CampaignTags,
	}
	for _, rv := range result.Related {
		resp.RelatedVideos = append(resp.RelatedVideos, relatedDTO{VideoID: rv.VideoID, Similarity: rv.Similarity})
	}

	status := http.StatusOK
	if result.Assignment != nil {
		status = http.StatusCreated
	}
	respondJSON(w, status, resp)
}

// #endregion submit

// #region mobs

func (s *Server) handleMobs(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Store().ReadAllStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]mobDTO, 0, len(s.engine.Catalog()))
	for _, cat := range s.engine.Catalog() {
		out = append(out, mobDTO{
			ID:          cat.ID,
			Name:        cat.DisplayName,
			Description: cat.Description,
			MemberCount: stats[cat.ID].MemberCount,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleMobStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stats, err := s.engine.Store().ReadStats(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	dto := statsDTO{
		CategoryID:  stats.CategoryID,
		MemberCount: stats.MemberCount,
		KeywordHits: stats.KeywordHits,
	}
	if !stats.LastUpdated.IsZero() {
		dto.LastUpdated = &stats.LastUpdated
	}
	respondJSON(w, http.StatusOK, dto)
}

// #endregion mobs

// #region tags-health

func (s *Server) handlePopularTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.engine.Store().PopularTags(r.Context(), 10)
	if err != nil {
		respondError(w, err)
		return
	}
	type tagDTO struct {
		Tag   string `json:"tag"`
		Count int64  `json:"count"`
	}
	out := make([]tagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagDTO{Tag: t.Tag, Count: t.Count})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Store().DB().PingContext(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// #endregion tags-health
