package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToMonitor(surveyID string, msgType string, payload interface{})
	SendToResponse(responseID string, msgType string, payload interface{})
}
