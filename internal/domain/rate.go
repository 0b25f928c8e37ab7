package domain

import (
	"time"
)

// RateObservation is the best directed exchange rate seen for an ordered pair
// of asset codes within one optimization run.
//
// Rate is destination units received per one origin unit. CostPerDestUnit is
// derived from the raw debit/receive amounts of the source quote, not by
// inverting Rate, so it keeps the numeric fidelity of the quote.
type RateObservation struct {
	From            string    `json:"from"`
	To              string    `json:"to"`
	Rate            float64   `json:"rate"`
	CostPerDestUnit float64   `json:"costPerDestUnit"`
	Path            RatePath  `json:"path"`
	ObservedAt      time.Time `json:"timestamp"`
}

// RatePath records which sender/receiver pair produced an observation.
type RatePath struct {
	SenderID      string `json:"senderId"`
	SenderName    string `json:"senderName,omitempty"`
	ReceiverURL   string `json:"receiverUrl"`
	ReceiverShort string `json:"receiverShort,omitempty"`
}
