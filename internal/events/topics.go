package events

// Topics emitted by the storefront core.
const (
	TopicOrderPlaced = "order.placed"
	TopicOrderFailed = "order.failed"
)
