package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Item describes a catalog entry in a transport-friendly format.
type Item struct {
	ID           int64      `json:"id"`
	ExternalID   string     `json:"externalId"`
	Author       string     `json:"author"`
	SourceType   string     `json:"sourceType"`
	SourceValue  string     `json:"sourceValue"`
	Tag          string     `json:"tag"`
	Description  string     `json:"description"`
	PostURL      string     `json:"postUrl"`
	Status       string     `json:"status"`
	Stats        ItemStats  `json:"stats"`
	Relevance    *Relevance `json:"relevance,omitempty"`
	Comment      string     `json:"comment,omitempty"`
	Submission   *Submission `json:"submission,omitempty"`
	Boost        *Boost     `json:"boost,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	PostedAt     string     `json:"postedAt,omitempty"`
	CreatedAt    string     `json:"createdAt,omitempty"`
	UpdatedAt    string     `json:"updatedAt,omitempty"`
}

// ItemStats carries the engagement counters captured at discovery time.
type ItemStats struct {
	Diggs    int64 `json:"diggs"`
	Comments int64 `json:"comments"`
	Plays    int64 `json:"plays"`
	Shares   int64 `json:"shares"`
}

// Relevance mirrors the scoring outcome for an item.
type Relevance struct {
	Relevant bool   `json:"relevant"`
	Score    int    `json:"score"`
	Reason   string `json:"reason,omitempty"`
}

// Submission mirrors the asynchronous comment submission state.
type Submission struct {
	ExternalRef string `json:"externalRef"`
	Status      string `json:"status"`
	ResultURL   string `json:"resultUrl,omitempty"`
}

// Boost mirrors the engagement boost order state.
type Boost struct {
	OrderRef string `json:"orderRef"`
	Status   string `json:"status"`
}

// Target describes one monitored discovery target.
type Target struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Tag       string `json:"tag"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// BrandProfile is the shared brand context in transport form.
type BrandProfile struct {
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription"`
	TargetAudience     string `json:"targetAudience,omitempty"`
	Persona            string `json:"persona,omitempty"`
	UGCAccountID       string `json:"ugcAccountId,omitempty"`
}

// PromptSet carries the per-tag prompt overrides.
type PromptSet struct {
	Tag           string `json:"tag"`
	RelevancyText string `json:"relevancyText,omitempty"`
	CommentText   string `json:"commentText,omitempty"`
}

// RunSummary aggregates per-stage outcome counts for one run.
type RunSummary struct {
	Discovered int `json:"discovered"`
	Scored     int `json:"scored"`
	Generated  int `json:"generated"`
	Submitted  int `json:"submitted"`
	Confirmed  int `json:"confirmed"`
	Boosted    int `json:"boosted"`
	Failed     int `json:"failed"`
	TimedOut   int `json:"timedOut"`
}

// Run is a point-in-time snapshot of one pipeline run.
type Run struct {
	ID        string     `json:"id"`
	Tag       string     `json:"tag"`
	State     string     `json:"state"`
	Stage     string     `json:"stage,omitempty"`
	StartedAt string     `json:"startedAt,omitempty"`
	Summary   RunSummary `json:"summary"`
	Error     string     `json:"error,omitempty"`
	Log       []string   `json:"log,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool           `json:"running"`
	PID           int            `json:"pid"`
	CatalogDBPath string         `json:"catalogDbPath"`
	LockFilePath  string         `json:"lockFilePath"`
	APIAddr       string         `json:"apiAddr,omitempty"`
	Stats         map[string]int `json:"stats"`
	ActiveRuns    []Run          `json:"activeRuns,omitempty"`
}

// ItemListResponse wraps a collection of items for API responses.
type ItemListResponse struct {
	Items []Item `json:"items"`
}

// ItemResponse wraps a single item.
type ItemResponse struct {
	Item Item `json:"item"`
}

// RunListResponse wraps a collection of run snapshots.
type RunListResponse struct {
	Runs []Run `json:"runs"`
}

// RunResponse wraps a single run snapshot.
type RunResponse struct {
	Run Run `json:"run"`
}
