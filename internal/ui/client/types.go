package client

// response types mirror the JSON sent by the wiki API serializers

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	TipsCount   int    `json:"tips_count"`
}

// CategoryDetail is returned by the single-category endpoint only
type CategoryDetail struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	TipsCount   int       `json:"tips_count,omitempty"`
	Tips        []TipList `json:"tips"`
}

// TipList is the summary projection used in listings
type TipList struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Slug             string  `json:"slug"`
	CategoryName     string  `json:"category_name"`
	EffectivenessAvg float64 `json:"effectiveness_avg"` // 0-5
	DifficultyAvg    float64 `json:"difficulty_avg"`    // 0-5
	SuccessRate      float64 `json:"success_rate"`      // 0-100+
	CreatedAt        string  `json:"created_at"`
}

// TipDetail is the full projection of a single tip including its votes
type TipDetail struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	Category         Category `json:"category"`
	Votes            []Vote   `json:"votes"`
	VoteCount        int      `json:"vote_count"`
	VoteScore        float64  `json:"vote_score"`
	EffectivenessAvg float64  `json:"effectiveness_avg"`
	DifficultyAvg    float64  `json:"difficulty_avg"`
	SuccessRate      float64  `json:"success_rate"`
	CreatedAt        string   `json:"created_at"`
}

type Vote struct {
	ID            int    `json:"id"`
	Effectiveness int    `json:"effectiveness"` // 1-5
	Difficulty    int    `json:"difficulty"`    // 1-5
	IPHash        string `json:"ip_hash"`
	CreatedAt     string `json:"created_at"`
}

type AffiliateProduct struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	AffiliateURL string   `json:"affiliate_url"`
	Network      string   `json:"network"`
	Keywords     []string `json:"keywords"`
	IsActive     bool     `json:"is_active"`
}

// TipListResponse is the pagination envelope returned by the tips list endpoint
type TipListResponse struct {
	Count       int       `json:"count"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	Next        *int      `json:"next"`
	Previous    *int      `json:"previous"`
	Results     []TipList `json:"results"`
}

// CreateTipRequest: all fields are required by the API, the client does not pre-validate them
type CreateTipRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	CategoryID     int    `json:"category_id"`
	TurnstileToken string `json:"turnstile_token"`
}

type CreateTipResponse struct {
	TipID int    `json:"tip_id"`
	Title string `json:"title"`
}

type VoteRequest struct {
	Effectiveness int `json:"effectiveness"`
	Difficulty    int `json:"difficulty"`
}

// VoteResponse carries the recalculated aggregates of the tip
type VoteResponse struct {
	Success          bool    `json:"success"`
	EffectivenessAvg float64 `json:"effectiveness_avg"`
	DifficultyAvg    float64 `json:"difficulty_avg"`
	SuccessRate      float64 `json:"success_rate"`
}

type FlagRequest struct {
	Reason string `json:"reason"`
}

type FlagResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
