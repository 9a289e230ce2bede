package app

import "fmt"

// InvalidRecipientError rejects a malformed recipient entry before any queue
// writes happen. The whole split step fails so the caller gets a 4xx.
type InvalidRecipientError struct {
	Reason string
}

func (e *InvalidRecipientError) Error() string {
	return "invalid recipient: " + e.Reason
}

// WorkflowNotFoundError is fatal to one subscriber's materialization but not
// to sibling subscribers of the same trigger.
type WorkflowNotFoundError struct {
	Identifier string
}

func (e *WorkflowNotFoundError) Error() string {
	return fmt.Sprintf("workflow %q was not found", e.Identifier)
}

// InvalidSubscriberError means the resolved recipient carried no subscriberId.
type InvalidSubscriberError struct{}

func (e *InvalidSubscriberError) Error() string {
	return "subscriberId under property to is not configured, please make sure all subscribers contain a subscriberId property"
}
