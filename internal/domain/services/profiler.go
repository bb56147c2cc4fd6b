package services

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/username/estatechat/internal/domain/entities"
)

// Keyword heuristics for property-query classification and preference
// extraction. Terms cover English plus common transliterated Hindi.
var (
	propertyPattern = regexp.MustCompile(`(?i)\b(property|properties|flat|flats|apartment|apartments|house|home|villa|villas|plot|plots|bungalow|real\s*estate|makaan|ghar|zameen|jameen)\b`)
	pricePattern    = regexp.MustCompile(`(?i)\b(price|cost|budget|rate|emi|lakh|lakhs|lac|lacs|crore|crores|kimat|keemat|daam)\b`)
	bedroomPattern  = regexp.MustCompile(`(?i)\b(\d+)\s*(?:bhk|bedroom|bedrooms|kamra|kamre)\b`)
	budgetPattern   = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(lakh|lakhs|lac|lacs|crore|crores|cr)\b`)
	typePattern     = regexp.MustCompile(`(?i)\b(flat|apartment|house|villa|plot|bungalow|penthouse|shop|office)\b`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:in|near|at|around|mein)\s+([A-Za-z]+(?:\s+[A-Za-z]+)?)`)
)

// Words that the loose location capture may swallow after the place name.
var locationStopwords = map[string]bool{
	"under": true, "below": true, "upto": true, "within": true,
	"around": true, "for": true, "with": true, "and": true, "or": true,
	"near": true, "the": true, "a": true, "an": true, "budget": true,
	"price": true, "my": true,
}

// Follow-up question candidates, keyed by the preference gap they probe.
const (
	questionLocation   = "Which area or locality are you looking in?"
	questionBudget     = "What is your budget range?"
	questionType       = "Are you looking for a flat, a villa, or a plot?"
	questionInvestment = "Is this for your own use or as an investment?"
	questionLoan       = "Would you like assistance with home loan options?"
	questionDefault    = "Is there anything specific you would like to know?"
)

// Profiler maintains the per-conversation derived context: detected topic
// keywords, inferred preferences and the follow-up questions already asked.
// Profiles are session-local and never persisted; they are updated
// copy-on-write so readers always see a consistent record.
type Profiler struct {
	mu       sync.RWMutex
	profiles map[string]*entities.Profile

	// dedup filters follow-up candidates against the asked set. Off by
	// default: the asked set is always recorded but only consulted when
	// this is enabled.
	dedup bool
	pick  func(n int) int
}

// NewProfiler creates a profiler. dedupFollowUps enables filtering follow-up
// candidates against the questions already asked in a conversation.
func NewProfiler(dedupFollowUps bool) *Profiler {
	return &Profiler{
		profiles: make(map[string]*entities.Profile),
		dedup:    dedupFollowUps,
		pick:     rand.Intn,
	}
}

// IsPropertyQuery reports whether the text reads like real-estate search
// intent.
func (p *Profiler) IsPropertyQuery(text string) bool {
	return propertyPattern.MatchString(text) ||
		pricePattern.MatchString(text) ||
		bedroomPattern.MatchString(text)
}

// ExtractPreferences pulls location, property type, bedroom count and budget
// substrings out of the text. Fields it cannot find stay empty.
func (p *Profiler) ExtractPreferences(text string) entities.Preferences {
	var prefs entities.Preferences

	if m := typePattern.FindStringSubmatch(text); m != nil {
		prefs.PropertyType = strings.ToLower(m[1])
	}
	if m := bedroomPattern.FindStringSubmatch(text); m != nil {
		prefs.Bedrooms = m[1]
	}
	if m := budgetPattern.FindStringSubmatch(text); m != nil {
		prefs.Budget = m[1] + " " + strings.ToLower(m[2])
	}
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		prefs.Location = cleanLocation(m[1])
	}

	return prefs
}

// cleanLocation trims stopwords the loose capture may have picked up after
// the place name.
func cleanLocation(raw string) string {
	words := strings.Fields(raw)
	kept := words[:0]
	for _, w := range words {
		if locationStopwords[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// Update folds a new user message into the conversation's profile and returns
// the updated record. The stored profile is replaced wholesale (copy-on-write)
// so concurrent readers never see a partial update.
func (p *Profiler) Update(conversationID, text string) *entities.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()

	profile := p.profiles[conversationID]
	if profile == nil {
		profile = entities.NewProfile(conversationID)
	}
	next := profile.Clone()

	for _, pattern := range []*regexp.Regexp{propertyPattern, pricePattern, typePattern} {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			next.Keywords[strings.ToLower(m[1])] = true
		}
	}

	extracted := p.ExtractPreferences(text)
	if extracted.Location != "" {
		next.Preferences.Location = extracted.Location
	}
	if extracted.PropertyType != "" {
		next.Preferences.PropertyType = extracted.PropertyType
	}
	if extracted.Bedrooms != "" {
		next.Preferences.Bedrooms = extracted.Bedrooms
	}
	if extracted.Budget != "" {
		next.Preferences.Budget = extracted.Budget
	}

	next.Interactions++
	next.LastInteraction = time.Now()

	p.profiles[conversationID] = next
	return next
}

// ProfileFor returns the conversation's current profile, or a fresh empty one.
func (p *Profiler) ProfileFor(conversationID string) *entities.Profile {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if profile := p.profiles[conversationID]; profile != nil {
		return profile
	}
	return entities.NewProfile(conversationID)
}

// BuildQuery composes a search query from the preferences extracted from the
// text, falling back to the conversation's profile for fields the text does
// not mention. When nothing is known the raw text is the query.
func (p *Profiler) BuildQuery(conversationID, text string) string {
	prefs := p.ExtractPreferences(text)
	stored := p.ProfileFor(conversationID).Preferences

	if prefs.Location == "" {
		prefs.Location = stored.Location
	}
	if prefs.PropertyType == "" {
		prefs.PropertyType = stored.PropertyType
	}
	if prefs.Bedrooms == "" {
		prefs.Bedrooms = stored.Bedrooms
	}
	if prefs.Budget == "" {
		prefs.Budget = stored.Budget
	}

	var parts []string
	if prefs.Bedrooms != "" {
		parts = append(parts, prefs.Bedrooms+" BHK")
	}
	if prefs.PropertyType != "" {
		parts = append(parts, prefs.PropertyType)
	} else if len(parts) > 0 {
		parts = append(parts, "property")
	}
	if prefs.Location != "" {
		parts = append(parts, "in "+prefs.Location)
	}
	if prefs.Budget != "" {
		parts = append(parts, "under "+prefs.Budget)
	}

	if len(parts) == 0 {
		return text
	}
	return strings.Join(parts, " ") + " for sale"
}

// FollowUp picks one follow-up question for the conversation. Candidates come
// from the preference fields still unknown; the pick is uniform random. The
// chosen question is recorded in the asked set, which filters future
// candidates only when dedup is enabled.
func (p *Profiler) FollowUp(conversationID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	profile := p.profiles[conversationID]
	if profile == nil {
		profile = entities.NewProfile(conversationID)
	}

	var candidates []string
	if profile.Preferences.Location == "" {
		candidates = append(candidates, questionLocation)
	}
	if profile.Preferences.Budget == "" {
		candidates = append(candidates, questionBudget)
	}
	if profile.Preferences.PropertyType == "" {
		candidates = append(candidates, questionType)
	}
	candidates = append(candidates, questionInvestment, questionLoan)

	if p.dedup {
		filtered := candidates[:0]
		for _, q := range candidates {
			if !profile.AskedQuestions[strings.ToLower(q)] {
				filtered = append(filtered, q)
			}
		}
		candidates = filtered
	}

	question := questionDefault
	if len(candidates) > 0 {
		question = candidates[p.pick(len(candidates))]
	}

	next := profile.Clone()
	next.AskedQuestions[strings.ToLower(question)] = true
	p.profiles[conversationID] = next

	return question
}

// Forget drops the profile for a deleted conversation.
func (p *Profiler) Forget(conversationID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.profiles, conversationID)
}

// Reset drops all profiles, for a full history clear.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles = make(map[string]*entities.Profile)
}
