package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ConversationTurn is one entry of the multi-turn editing context.
type ConversationTurn struct {
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// AppendTurn returns a new history with turn appended. The input slice is
// never written to, so callers holding an earlier snapshot keep it intact.
func AppendTurn(history []ConversationTurn, turn ConversationTurn) []ConversationTurn {
	out := make([]ConversationTurn, 0, len(history)+1)
	out = append(out, history...)
	return append(out, turn)
}
