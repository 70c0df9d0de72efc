package request_models

type ChatRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
}

// SocketMessage is a client frame on the chat websocket.
type SocketMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
