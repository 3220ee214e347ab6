package port

// Messenger delivers an outbound message to a named contact.
type Messenger interface {
	Send(contact, message string) error
}
