package session

import (
	"time"

	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Summary is the immutable snapshot the monitoring surface reads. The
// orchestrator swaps a fresh pointer into an atomic slot after every round;
// readers never lock.
type Summary struct {
	State               State                       `json:"state"`
	SessionID           string                      `json:"sessionId,omitempty"`
	Round               int                         `json:"round"`
	Day                 int                         `json:"day"`
	Hour                int                         `json:"hour"`
	TotalCost           float64                     `json:"totalCost"`
	CumulativeDecisions int                         `json:"cumulativeDecisions"`
	CumulativePurchases shared.KitVector            `json:"cumulativePurchases"`
	Inventories         map[string]shared.KitVector `json:"inventories"`
	RecentPenalties     []mirror.Penalty            `json:"recentPenalties"`
	Anomalies           []mirror.Anomaly            `json:"anomalies"`
	UpdatedAt           time.Time                   `json:"updatedAt"`
}

// RoundRecord is one round's archived outcome for the history surface.
type RoundRecord struct {
	Round          int                         `json:"round"`
	Time           time.Time                   `json:"time"`
	Loads          map[string]shared.KitVector `json:"loadsSubmitted"`
	Purchases      shared.KitVector            `json:"purchasesSubmitted"`
	RoundTotalCost float64                     `json:"roundTotalCost"`
	Penalties      []mirror.Penalty            `json:"penalties"`
	OptimizerMs    int64                       `json:"optimizerMs"`
	Generations    int                         `json:"generations"`
}
