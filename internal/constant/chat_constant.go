package constant

import "time"

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// Stream event types emitted over the NDJSON chat stream
	StreamEventToken = "token"
	StreamEventDone  = "done"
	StreamEventError = "error"
)

// Role tags recognised by the permission resolver.
const (
	RoleFinance     = "finance"
	RoleMarketing   = "marketing"
	RoleHR          = "hr"
	RoleEngineering = "engineering"
	RoleManager     = "manager"
	RoleEmployee    = "employee"
)

// Scope names. A scope is a named partition of documents/records owned by a
// department, plus "general" which every role can read.
const (
	ScopeFinance     = "finance"
	ScopeMarketing   = "marketing"
	ScopeHR          = "hr"
	ScopeEngineering = "engineering"
	ScopeGeneral     = "general"
)

const (
	// DefaultSessionTitle is used until the first user message arrives.
	DefaultSessionTitle = "Unnamed session"

	// SessionTitleMaxLen caps the title derived from the first user message.
	SessionTitleMaxLen = 50

	// HistoryTurnLimit bounds how many prior turns are fed back to the LLM.
	HistoryTurnLimit = 10

	// HistoryMessageMaxLen clamps a single historical message inside the prompt.
	HistoryMessageMaxLen = 2000

	// EvidenceLimit caps how many evidence items reach generation.
	EvidenceLimit = 6

	// SearchTopKMax is the hard ceiling on candidate chunks per search.
	SearchTopKMax = 20

	// StreamRequestTimeout bounds one full chat turn, retrieval included.
	StreamRequestTimeout = 2 * time.Minute
)

// InsufficientInformationAnswer is the fixed reply when no in-scope evidence
// exists. It must never be replaced by generated text.
const InsufficientInformationAnswer = "I could not find relevant information in the documents you have access to. Try rephrasing the question, or ask about a topic within your department."

// RecordNotFoundAnswer is returned when a structured lookup finds no record.
// It deliberately does not mention access control.
const RecordNotFoundAnswer = "I could not find a matching record for that request."

// ScopeDeniedAnswer is the plain refusal for out-of-scope structured asks.
const ScopeDeniedAnswer = "Access denied: you don't have permission to view that department's data."

const GroundedSystemPrompt = `You are an AI assistant for company employees.
Answer based ONLY on the provided reference material.
Cite sources by document name, e.g. "According to the Employee Handbook...".
If the material does not contain the answer, say so honestly.
Format the response in clear markdown.`
