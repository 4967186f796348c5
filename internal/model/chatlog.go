package model

// ChatLog is one completed relay turn captured for offline review. Delivery
// to the sink is best-effort, at most once.
type ChatLog struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Query    string `json:"query"`
	Response string `json:"response"`
	Ctime    int64  `json:"ctime"`
}
