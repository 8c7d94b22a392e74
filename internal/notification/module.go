// Package notification subscribes to lead lifecycle events and sends the
// broker-facing notifications. It registers no HTTP routes; delivery
// failures are logged and never surface to the publishing module.
package notification

import (
	"context"
	"fmt"

	"vmr_backend/internal/email"
	"vmr_backend/internal/events"
	"vmr_backend/platform/config"
	"vmr_backend/platform/logger"
)

type Module struct {
	sender email.Sender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

func NewModule(bus events.Bus, sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	m := &Module{sender: sender, cfg: cfg, log: log}

	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(m.onLeadCaptured))
	bus.Subscribe(events.LeadFinalized{}.EventName(), events.HandlerFunc(m.onLeadFinalized))
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.onLeadAssigned))

	return m
}

func (m *Module) onLeadCaptured(_ context.Context, event events.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok {
		return nil
	}

	m.log.Info("lead captured",
		"leadId", captured.LeadID,
		"leadNumber", captured.LeadNumber,
		"email", captured.Email,
	)
	return nil
}

func (m *Module) onLeadFinalized(_ context.Context, event events.Event) error {
	finalized, ok := event.(events.LeadFinalized)
	if !ok {
		return nil
	}

	m.log.Info("lead finalized",
		"leadId", finalized.LeadID,
		"leadNumber", finalized.LeadNumber,
		"isIncome", finalized.IsIncome,
	)
	return nil
}

// onLeadAssigned emails the broker about their new opportunity.
func (m *Module) onLeadAssigned(ctx context.Context, event events.Event) error {
	assigned, ok := event.(events.LeadAssigned)
	if !ok {
		return nil
	}
	if assigned.BrokerID == nil || assigned.BrokerEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Nouveau lead assigné – %s", assigned.LeadNumber)
	body := fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Un nouveau lead (#%s) vient de vous être assigné. Connectez-vous au portail pour consulter le dossier:</p><p><a href=\"%s/broker/leads/%s\">Voir le lead</a></p>",
		assigned.BrokerName, assigned.LeadNumber, m.cfg.GetSiteBaseURL(), assigned.LeadID,
	)

	if err := m.sender.SendCustomEmail(ctx, assigned.BrokerEmail, subject, body); err != nil {
		m.log.EmailError("lead_assigned", assigned.BrokerEmail, err)
	}
	return nil
}
