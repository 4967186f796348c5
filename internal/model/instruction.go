package model

const (
	InstructionScopeGlobal = "global"
)

// Instruction is one mutable prompt-instruction row. Scope is either
// "global" or a provider id ("google", "openrouter").
type Instruction struct {
	Scope   string `json:"scope"`
	Content string `json:"content"`
	Mtime   int64  `json:"mtime"`
}
