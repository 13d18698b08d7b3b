package queue

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// Subjects published by the services. The websocket hub subscribes to all of
// them; the email worker listens for computed payloads.
const (
	SubjectRecommendationsComputed = "recommendations.computed"
	SubjectDecisionsRecorded       = "decisions.recorded"
	SubjectRatesPushed             = "rates.pushed"
)
