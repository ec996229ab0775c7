package domain

// EventCheckoutCompleted is the only processor event this service acts
// on; everything else is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is a verified, decoded processor notification.
type Event struct {
	ID      string
	Type    string
	Session CompletedSession
}

// CompletedSession carries the authoritative payment result.
// ClientReferenceID is the purchasing user's ID as attached at checkout
// creation; it is empty for sessions created without one.
type CompletedSession struct {
	ID                string
	ClientReferenceID string
	AmountTotal       int64
	Currency          string
}
