package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/dsf/internal/connector"
	"github.com/mrz1836/dsf/internal/constants"
	"github.com/mrz1836/dsf/internal/domain"
	"github.com/mrz1836/dsf/internal/settings"
)

// Options tunes connection reconciliation. The zero value uses the shared
// connection policy, aborts on an empty target group and writes "None found".
type Options struct {
	Policy       ConnectionPolicy
	OnEmptyGroup EmptyGroupBehavior
	Sentinel     string
}

func (o Options) withDefaults() Options {
	if o.Policy == nil {
		o.Policy = SharedConnectionPolicy{}
	}
	if o.OnEmptyGroup == "" {
		o.OnEmptyGroup = OnEmptyGroupAbort
	}
	if o.Sentinel == "" {
		o.Sentinel = constants.ConnectionNotFound
	}
	return o
}

// ConnectionReconciler fills connection ids of connection reference slots.
type ConnectionReconciler struct {
	opts      Options
	normalize func(string) string
}

// NewConnectionReconciler creates a reconciler with opts.
func NewConnectionReconciler(opts Options) *ConnectionReconciler {
	return &ConnectionReconciler{
		opts:      opts.withDefaults(),
		normalize: connector.Normalize,
	}
}

// ReconcileConnections is shorthand for NewConnectionReconciler(opts).Reconcile.
func ReconcileConnections(ctx context.Context, doc *settings.Document, records []domain.ConnectorRecord, opts Options) Report {
	return NewConnectionReconciler(opts).Reconcile(ctx, doc, records)
}

// Reconcile walks connection reference slots in document order. For each slot
// whose normalized connector appears among records, every slot sharing that
// connector receives the connection id of the first record the policy
// accepts, or the sentinel when none does. Slots whose connector is unknown
// remotely keep their value. A slot without a connector id matches as "".
func (c *ConnectionReconciler) Reconcile(ctx context.Context, doc *settings.Document, records []domain.ConnectorRecord) Report {
	log := zerolog.Ctx(ctx)
	slots := doc.ConnectionReferences.Items

	report := Report{Results: make([]SlotResult, len(slots))}
	for i, slot := range slots {
		report.Results[i] = SlotResult{
			Key:       slot.Key(),
			Connector: slot.Connector(),
			Outcome:   OutcomeSkipped,
			Value:     slot.ConnectionID,
		}
	}

	available := connector.NewNames()
	for _, r := range records {
		available.Add(r.ConnectorID)
	}
	log.Debug().Int("records", len(records)).Strs("connectors", available.List()).Msg("remote connectors")

	for i := range slots {
		wanted := c.normalize(slots[i].Connector())

		if !available.Contains(wanted) {
			report.Results[i].Outcome = OutcomeUnmatched
			report.Results[i].Value = slots[i].ConnectionID
			log.Debug().Str("slot", slots[i].Key()).Str("connector", wanted).Msg("connector not in environment")
			continue
		}

		group := c.targetGroup(slots, wanted)
		if len(group) == 0 {
			if c.opts.OnEmptyGroup == OnEmptyGroupAbort {
				log.Warn().Str("slot", slots[i].Key()).Str("connector", wanted).Msg("no slots share connector, stopping")
				report.Aborted = true
				break
			}
			log.Warn().Str("slot", slots[i].Key()).Str("connector", wanted).Msg("no slots share connector, skipping")
			continue
		}

		value, outcome := c.pick(records, wanted)
		for _, j := range group {
			slots[j].ConnectionID = value
			report.Results[j].Outcome = outcome
			report.Results[j].Value = value
		}
		log.Debug().Str("connector", wanted).Int("slots", len(group)).Str("outcome", string(outcome)).Msg("connection assigned")
	}

	return report
}

// targetGroup returns the indices of slots whose normalized connector is wanted.
func (c *ConnectionReconciler) targetGroup(slots []domain.ConnectionReference, wanted string) []int {
	var group []int
	for j := range slots {
		if c.normalize(slots[j].Connector()) == wanted {
			group = append(group, j)
		}
	}
	return group
}

// pick returns the connection id of the first record for wanted that the
// policy accepts, or the sentinel.
func (c *ConnectionReconciler) pick(records []domain.ConnectorRecord, wanted string) (string, Outcome) {
	for _, r := range records {
		if c.opts.Policy.Accept(r) && c.normalize(r.ConnectorID) == wanted {
			return r.ConnectionID, OutcomeMatched
		}
	}
	return c.opts.Sentinel, OutcomeNoConnection
}
