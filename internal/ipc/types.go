package ipc

import "ripple/internal/api"

// Item mirrors the HTTP API item DTO for internal IPC callers.
type Item = api.Item

// Run mirrors the HTTP API run DTO.
type Run = api.Run

// Target mirrors the HTTP API target DTO.
type Target = api.Target

// BrandProfile mirrors the HTTP API brand profile DTO.
type BrandProfile = api.BrandProfile

// PromptSet mirrors the HTTP API prompt set DTO.
type PromptSet = api.PromptSet

// StartRequest triggers daemon startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/pipeline status information.
type StatusResponse struct {
	Running       bool           `json:"running"`
	PID           int            `json:"pid"`
	CatalogDBPath string         `json:"catalog_db_path"`
	LockPath      string         `json:"lock_path"`
	APIAddr       string         `json:"api_addr,omitempty"`
	Stats         map[string]int `json:"stats"`
	ActiveRuns    []Run          `json:"active_runs"`
}

// RunStartRequest starts a pipeline run for one workflow tag (empty tag
// runs every tag).
type RunStartRequest struct {
	Tag string `json:"tag"`
}

// RunStartResponse returns the started run snapshot.
type RunStartResponse struct {
	Run Run `json:"run"`
}

// RunStopRequest requests a clean halt of one run.
type RunStopRequest struct {
	ID string `json:"id"`
}

// RunStopResponse indicates whether the run was found and signalled.
type RunStopResponse struct {
	Stopped bool `json:"stopped"`
}

// RunListRequest fetches active and recently finished runs.
type RunListRequest struct{}

// RunListResponse contains run snapshots without logs.
type RunListResponse struct {
	Runs []Run `json:"runs"`
}

// RunShowRequest fetches one run including its log.
type RunShowRequest struct {
	ID string `json:"id"`
}

// RunShowResponse contains a single run snapshot.
type RunShowResponse struct {
	Run Run `json:"run"`
}

// ItemListRequest filters catalog listing by tag and statuses.
type ItemListRequest struct {
	Tag      string   `json:"tag"`
	Statuses []string `json:"statuses"`
}

// ItemListResponse contains catalog entries.
type ItemListResponse struct {
	Items []Item `json:"items"`
}

// ItemShowRequest fetches a single catalog item by id.
type ItemShowRequest struct {
	ID int64 `json:"id"`
}

// ItemShowResponse contains a single catalog entry.
type ItemShowResponse struct {
	Item Item `json:"item"`
}

// ItemRemoveRequest removes a catalog item by id.
type ItemRemoveRequest struct {
	ID int64 `json:"id"`
}

// ItemRemoveResponse reports whether the item existed.
type ItemRemoveResponse struct {
	Removed bool `json:"removed"`
}

// ItemSubmitRequest submits one generated comment outside a full run.
type ItemSubmitRequest struct {
	ID int64 `json:"id"`
}

// ItemSubmitResponse returns the updated item.
type ItemSubmitResponse struct {
	Item Item `json:"item"`
}

// ItemBoostRequest orders an engagement boost for one confirmed comment.
type ItemBoostRequest struct {
	ID int64 `json:"id"`
}

// ItemBoostResponse returns the updated item.
type ItemBoostResponse struct {
	Item Item `json:"item"`
}

// TargetAddRequest registers a monitored discovery target.
type TargetAddRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Tag   string `json:"tag"`
}

// TargetAddResponse returns the stored target.
type TargetAddResponse struct {
	Target Target `json:"target"`
}

// TargetListRequest lists monitored targets, optionally scoped to a tag.
type TargetListRequest struct {
	Tag string `json:"tag"`
}

// TargetListResponse contains monitored targets.
type TargetListResponse struct {
	Targets []Target `json:"targets"`
}

// TargetRemoveRequest removes a monitored target by id.
type TargetRemoveRequest struct {
	ID int64 `json:"id"`
}

// TargetRemoveResponse reports whether the target existed.
type TargetRemoveResponse struct {
	Removed bool `json:"removed"`
}

// BrandShowRequest fetches the brand profile.
type BrandShowRequest struct{}

// BrandShowResponse contains the brand profile.
type BrandShowResponse struct {
	Profile BrandProfile `json:"profile"`
}

// BrandSetRequest replaces the brand profile.
type BrandSetRequest struct {
	Profile BrandProfile `json:"profile"`
}

// BrandSetResponse acknowledges the update.
type BrandSetResponse struct {
	Saved bool `json:"saved"`
}

// PromptsShowRequest fetches the prompt set for one workflow tag.
type PromptsShowRequest struct {
	Tag string `json:"tag"`
}

// PromptsShowResponse contains the prompt set.
type PromptsShowResponse struct {
	Prompts PromptSet `json:"prompts"`
}

// PromptsSetRequest replaces the prompt set for one workflow tag.
type PromptsSetRequest struct {
	Prompts PromptSet `json:"prompts"`
}

// PromptsSetResponse acknowledges the update.
type PromptsSetResponse struct {
	Saved bool `json:"saved"`
}
