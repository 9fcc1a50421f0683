package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/white/crm-backend/pkg/kafka"
)

// Action represents the type of CRM change being published
type Action string

const (
	ActionAccountCreated Action = "ACCOUNT_CREATED"
	ActionAccountUpdated Action = "ACCOUNT_UPDATED"
	ActionAccountDeleted Action = "ACCOUNT_DELETED"

	ActionContactCreated Action = "CONTACT_CREATED"
	ActionContactUpdated Action = "CONTACT_UPDATED"
	ActionContactDeleted Action = "CONTACT_DELETED"

	ActionActivityLogged  Action = "ACTIVITY_LOGGED"
	ActionActivityUpdated Action = "ACTIVITY_UPDATED"
	ActionActivityDeleted Action = "ACTIVITY_DELETED"

	ActionAccountsImported Action = "ACCOUNTS_IMPORTED"
	ActionContactsImported Action = "CONTACTS_IMPORTED"
)

// Entity names the resource an event refers to
type Entity string

const (
	EntityAccount  Entity = "ACCOUNT"
	EntityContact  Entity = "CONTACT"
	EntityActivity Entity = "ACTIVITY"
	EntityImport   Entity = "IMPORT"
)

// Event is a CRM change event published to Kafka
type Event struct {
	EventID   string                 `json:"event_id"`
	Timestamp int64                  `json:"timestamp"`
	Action    Action                 `json:"action"`
	Entity    Entity                 `json:"entity"`
	EntityID  string                 `json:"entity_id,omitempty"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Publisher handles publishing CRM events to Kafka
type Publisher struct {
	producer *kafka.Producer
	topic    string
	enabled  bool
}

// NewPublisher creates a new event publisher. A nil producer disables Kafka;
// events are then logged only.
func NewPublisher(producer *kafka.Producer, topic string) *Publisher {
	enabled := producer != nil
	if enabled {
		log.Println("CRM event publisher initialized (Kafka enabled)")
	} else {
		log.Println("CRM event publisher initialized (Kafka disabled - events will be logged only)")
	}
	return &Publisher{
		producer: producer,
		topic:    topic,
		enabled:  enabled,
	}
}

// Publish sends a CRM event to Kafka (fire-and-forget)
func (p *Publisher) Publish(event *Event) {
	if p == nil {
		return
	}

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	eventJSON, _ := json.Marshal(event)
	log.Printf("EVENT: %s", string(eventJSON))

	if !p.enabled || p.producer == nil {
		return
	}

	go func() {
		if err := p.producer.PublishJSON(p.topic, event); err != nil {
			log.Printf("Failed to publish CRM event: %v", err)
		}
	}()
}

// PublishChange publishes a single-entity change event
func (p *Publisher) PublishChange(action Action, entity Entity, entityID, details string) {
	p.Publish(&Event{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	})
}

// PublishImport publishes a bulk-import completion event with row counts
func (p *Publisher) PublishImport(action Action, imported, failed int) {
	p.Publish(&Event{
		Action: action,
		Entity: EntityImport,
		Metadata: map[string]interface{}{
			"imported": imported,
			"failed":   failed,
		},
	})
}
