package outbox

// Message is the canonical outbox row shape: persisted inside the same DB
// transaction as state changes, relayed to the bus by the worker process.
// Partitioned by competition so consumers see one competition's lifecycle in
// order.
type Message struct {
	ID           string
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string
}

const (
	StatusPending   = "pending"
	StatusPublished = "published"
)
