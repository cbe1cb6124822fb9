package whatsapp

type EventKind int

const (
	EventUnrecognized EventKind = iota
	EventMessage
	EventStatusUpdate
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventStatusUpdate:
		return "status"
	default:
		return "unrecognized"
	}
}

// Event is a classified webhook notification. Message is set for
// EventMessage, Status for EventStatusUpdate.
type Event struct {
	Kind          EventKind
	PhoneNumberID string
	Contact       *Contact
	Message       *Message
	Status        *Status
}

// Classify inspects entry[0].changes[0].value only. Meta batches at most one
// change per delivery for the messages field.
func Classify(p *WebhookPayload) Event {
	if p == nil || p.Object != ObjectWhatsAppBusinessAccount {
		return Event{Kind: EventUnrecognized}
	}
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return Event{Kind: EventUnrecognized}
	}

	value := p.Entry[0].Changes[0].Value
	event := Event{PhoneNumberID: value.Metadata.PhoneNumberID}
	if len(value.Contacts) > 0 {
		event.Contact = &value.Contacts[0]
	}

	switch {
	case len(value.Messages) > 0:
		event.Kind = EventMessage
		event.Message = &value.Messages[0]
	case len(value.Statuses) > 0:
		event.Kind = EventStatusUpdate
		event.Status = &value.Statuses[0]
	default:
		event.Kind = EventUnrecognized
	}
	return event
}
