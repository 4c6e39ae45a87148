// Package tracking simulates the delivery progress of placed orders.
//
// Each order walks through four stages, one per tick of a fixed interval.
// Progress is a plain value; Tracker owns the timers.
package tracking

import "github.com/fooddash/api/internal/enum"

// Stage is one step of an order's progress.
type Stage struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// Ticks is the number of advances from a fresh order to the terminal state.
const Ticks = 4

var stageDefs = [Ticks]struct {
	id    string
	label string
}{
	{enum.OrderStageConfirmed, "Order Confirmed"},
	{enum.OrderStagePreparing, "Preparing Food"},
	{enum.OrderStageDelivery, "Out for Delivery"},
	{enum.OrderStageDelivered, "Delivered"},
}

// Progress is the state of one order's simulation. Step counts the ticks
// applied so far, from 0 up to Ticks.
type Progress struct {
	OrderID string  `json:"order_id"`
	Step    int     `json:"step"`
	Stages  []Stage `json:"stages"`
	Done    bool    `json:"done"`
}

// NewProgress returns the initial state: first stage current, nothing
// completed.
func NewProgress(orderID string) Progress {
	return progressAt(orderID, 0)
}

// Advance applies one tick. The terminal state is absorbing: advancing it
// again returns it unchanged and false.
func (p Progress) Advance() (Progress, bool) {
	if p.Done {
		return p, false
	}
	return progressAt(p.OrderID, p.Step+1), true
}

// Current returns the stage holding the current marker.
func (p Progress) Current() Stage {
	for _, s := range p.Stages {
		if s.Current {
			return s
		}
	}
	return Stage{}
}

func progressAt(orderID string, step int) Progress {
	if step > Ticks {
		step = Ticks
	}
	last := len(stageDefs) - 1
	current := step
	if current > last {
		current = last
	}

	stages := make([]Stage, len(stageDefs))
	for i, d := range stageDefs {
		stages[i] = Stage{
			ID:        d.id,
			Label:     d.label,
			Completed: i < step,
			Current:   i == current,
		}
	}
	return Progress{
		OrderID: orderID,
		Step:    step,
		Stages:  stages,
		Done:    step == Ticks,
	}
}
