package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType is what happened to the entity
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypeUpserted EventType = "upserted"
	EventTypeLoaded   EventType = "loaded"
)

// EntityType is the page entity an event is about
type EntityType string

const (
	EntityTypeExpenseType      EntityType = "expense_type"
	EntityTypeFund             EntityType = "fund"
	EntityTypeBudget           EntityType = "budget"
	EntityTypeDeposit          EntityType = "deposit"
	EntityTypeExpense          EntityType = "expense"
	EntityTypeMovementsReport  EntityType = "movements_report"
	EntityTypeComparisonReport EntityType = "comparison_report"
)

// Event is the message sent to browser tabs
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string     `json:"type"` // e.g. "budget.upserted"
	Entity    EntityType `json:"entity"`
	Payload   any        `json:"payload"`
	Timestamp time.Time  `json:"timestamp"`
}

func NewEvent(eventType EventType, entityType EntityType, payload any) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Loaded creates an <entity>.loaded event carrying the row count
func Loaded(entity EntityType, count int) Event {
	return NewEvent(EventTypeLoaded, entity, map[string]int{"count": count})
}

// BudgetUpserted creates a budget.upserted event
func BudgetUpserted(payload any) Event {
	return NewEvent(EventTypeUpserted, EntityTypeBudget, payload)
}

// DepositCreated creates a deposit.created event
func DepositCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeDeposit, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}
