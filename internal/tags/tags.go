// Package tags detects campaign hashtags and mentions in post text.
// Pure parsing; nothing here influences validation or classification.
package tags

// #region imports
import (
	"regexp"
	"sort"
	"strings"
)

// #endregion

// #region patterns

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// DefaultCampaignTags returns the stock campaign hashtag list.
func DefaultCampaignTags() []string {
	return []string{
		"#gotmilk", "#milkmob", "#gotmilk2025", "#milkchallenge",
		"#milkitup", "#drinkmoremilk", "#milkmovement",
	}
}

// #endregion patterns

// #region detection

// Detection is the result of scanning one post.
type Detection struct {
	CampaignTagged bool
	CampaignTags   []string
	AllTags        []string
	Mentions       []string
	Confidence     float32
}

// #endregion detection

// #region detector

// Detector matches post hashtags against the campaign tag list.
type Detector struct {
	campaignTags []string
}

// NewDetector creates a detector. An empty list falls back to the
// default campaign tags.
func NewDetector(campaignTags []string) *Detector {
	if len(campaignTags) == 0 {
		campaignTags = DefaultCampaignTags()
	}
	lowered := make([]string, len(campaignTags))
	for i, tag := range campaignTags {
		lowered[i] = strings.ToLower(tag)
	}
	return &Detector{campaignTags: lowered}
}

// Detect scans the caption and the explicit hashtag list. Tags are
// normalized to lowercase and deduplicated; a campaign tag matches when
// it appears inside a post tag (so "#gotmilk2025" hits "#gotmilk").
// Confidence is min(1, matches/2).
func (d *Detector) Detect(caption string, hashtags []string) Detection {
	seen := make(map[string]bool)
	var all []string
	add := func(tag string) {
		tag = strings.ToLower(tag)
		if !seen[tag] {
			seen[tag] = true
			all = append(all, tag)
		}
	}
	for _, tag := range hashtags {
		add(tag)
	}
	for _, tag := range hashtagPattern.FindAllString(caption, -1) {
		add(tag)
	}
	sort.Strings(all)

	var campaign []string
	for _, tag := range all {
		for _, ct := range d.campaignTags {
			if strings.Contains(tag, ct) {
				campaign = append(campaign, tag)
				break
			}
		}
	}

	confidence := float32(len(campaign)) / 2
	if confidence > 1 {
		confidence = 1
	}

	return Detection{
		CampaignTagged: len(campaign) > 0,
		CampaignTags:   campaign,
		AllTags:        all,
		Mentions:       mentionPattern.FindAllString(caption, -1),
		Confidence:     confidence,
	}
}

// #endregion detector
