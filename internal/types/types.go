// Package types defines the data model shared by every pipeline stage:
// activity candidates, assessments, patient summaries, and the final
// health report. Status, urgency, and category are closed enumerations
// so that an invalid value from the reasoning engine can never leak
// deep into scoring undetected.
package types

// ActivityStatus is the completion status of a health activity.
type ActivityStatus string

const (
	StatusCompleted         ActivityStatus = "Completed"
	StatusRecommended       ActivityStatus = "Recommended"
	StatusNeedsConfirmation ActivityStatus = "Needs user confirmation"
)

// Valid reports whether s is one of the three known statuses.
func (s ActivityStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusRecommended, StatusNeedsConfirmation:
		return true
	}
	return false
}

// Urgency is the clinical priority of an activity. It drives the point
// weighting in the scoring engine.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Valid reports whether u is one of the three known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// Category classifies a health activity.
type Category string

const (
	CategoryPreventiveScreening Category = "Preventive Screening"
	CategoryVaccination         Category = "Vaccination"
	CategoryLifestyle           Category = "Lifestyle & Wellness"
	CategoryChronicDisease      Category = "Chronic Disease Management"
	CategoryMentalHealth        Category = "Mental Health"
	CategoryOther               Category = "Other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPreventiveScreening, CategoryVaccination, CategoryLifestyle,
		CategoryChronicDisease, CategoryMentalHealth, CategoryOther:
		return true
	}
	return false
}

// NormalizeCategory maps an unrecognized category string to CategoryOther.
func NormalizeCategory(c Category) Category {
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Bounded field lengths for candidate descriptions. Values coming back
// from the reasoning engine are truncated at the parse boundary rather
// than trusted to respect the prompt's limits.
const (
	MaxShortDescriptionLen = 150
	MaxFrequencyLen        = 120
)

// ActivityCandidate is one proposed preventive action, produced by a
// recommendation-gathering stage and merged during consolidation. The
// ActivityID assigned at consolidation time is the join key for every
// later stage.
type ActivityCandidate struct {
	ActivityID       string   `json:"activity_id"`
	ShortDescription string   `json:"recommendation_short_str"`
	LongDescription  string   `json:"recommendation_long_str"`
	Frequency        string   `json:"frequency_short_str"`
	Category         Category `json:"category"`
	Source           string   `json:"source"`
}

// ActivityAssessment is the outcome of assessing one candidate against
// the patient record.
type ActivityAssessment struct {
	ActivityID       string   `json:"activity_id"`
	ShortDescription string   `json:"recommendation_short_str"`
	LongDescription  string   `json:"recommendation_long_str"`
	Frequency        string   `json:"frequency_short_str"`
	Category         Category `json:"category"`

	Status             ActivityStatus `json:"status"`
	Urgency            Urgency        `json:"urgency"`
	ConfidenceScore    *int           `json:"confidence_score,omitempty"`
	SupportingEvidence string         `json:"supporting_evidence"`
	CompletionDate     string         `json:"completion_date,omitempty"`
	UserInputQuestions []string       `json:"user_input_questions,omitempty"`
}

// WithCandidateFields returns a copy of the assessment with the
// identifier, descriptions, frequency, and category overwritten from the
// originating candidate. The reasoning engine is never trusted to echo
// these fields back verbatim; restoring them is mandatory after every
// assessment regardless of which branch produced it.
func (a ActivityAssessment) WithCandidateFields(c ActivityCandidate) ActivityAssessment {
	a.ActivityID = c.ActivityID
	a.ShortDescription = c.ShortDescription
	a.LongDescription = c.LongDescription
	a.Frequency = c.Frequency
	a.Category = c.Category
	return a
}

// PatientSummary is the demographic and medical summary produced by the
// summarization stage. Created once per run and immutable afterward.
type PatientSummary struct {
	Age                *int     `json:"age,omitempty"`
	Sex                string   `json:"sex,omitempty"`
	BasicSummary       string   `json:"basic_summary"`
	AdvancedSummary    string   `json:"advanced_summary"`
	CurrentMedications []string `json:"current_medications,omitempty"`
}

// HealthReport is the final aggregate of one pipeline run. It is the
// unit exported to the caller and the only context the chat and what-if
// collaborators see.
type HealthReport struct {
	PatientSummary         string               `json:"patient_summary"`
	TotalActivities        int                  `json:"total_activities"`
	CompletedCount         int                  `json:"completed_count"`
	RecommendedCount       int                  `json:"recommended_count"`
	NeedsConfirmationCount int                  `json:"needs_confirmation_count"`
	HealthEngagementScore  float64              `json:"health_engagement_score"`
	ActivityAssessments    []ActivityAssessment `json:"activity_assessments"`
}

// StatusCounts tallies assessments by status. Unknown statuses are not
// counted toward any bucket.
func StatusCounts(assessments []ActivityAssessment) (completed, recommended, needsConfirmation int) {
	for _, a := range assessments {
		switch a.Status {
		case StatusCompleted:
			completed++
		case StatusRecommended:
			recommended++
		case StatusNeedsConfirmation:
			needsConfirmation++
		}
	}
	return completed, recommended, needsConfirmation
}

// TruncateField cuts s to max runes. Used at the reasoning parse
// boundary to enforce the bounded-length contract on short descriptions
// and frequency strings.
func TruncateField(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
