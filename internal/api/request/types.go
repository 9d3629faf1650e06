package request

// JoinSessionRequest is the request body for joining a session
type JoinSessionRequest struct {
	Name string `json:"name,omitempty"`
}
