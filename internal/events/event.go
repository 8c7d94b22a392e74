// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"vmr_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published when a public form submission creates a lead.
type LeadCaptured struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	LeadNumber  string    `json:"leadNumber"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	AccessToken string    `json:"accessToken"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadFinalized is published when the finalization form is submitted and the
// access token consumed. Subscribers send the summary email; delivery failures
// never fail the finalization itself.
type LeadFinalized struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	LeadNumber   string    `json:"leadNumber"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	PropertyType string    `json:"propertyType"`
	IsIncome     bool      `json:"isIncome"`
	Answers      []Answer  `json:"answers"`
}

func (e LeadFinalized) EventName() string { return "leads.lead.finalized" }

// Answer is a rendered question/answer pair from the finalization form.
type Answer struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// LeadAssigned is published when an admin assigns a lead to a broker.
type LeadAssigned struct {
	BaseEvent
	LeadID      uuid.UUID  `json:"leadId"`
	LeadNumber  string     `json:"leadNumber"`
	BrokerID    *uuid.UUID `json:"brokerId,omitempty"`
	BrokerEmail string     `json:"brokerEmail,omitempty"`
	BrokerName  string     `json:"brokerName,omitempty"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }
