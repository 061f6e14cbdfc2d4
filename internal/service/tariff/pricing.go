package tariff

import (
	"time"

	"github.com/portalenergy/chargehub/internal/domain"
)

// Price sums the charge of every price component whose restriction window
// admits the session profile. Money is int64 minor units throughout; the
// session start hour is taken in UTC so the result never depends on where
// the computation runs.
func Price(t *domain.Tariff, consumptionWh, durationSec, startTs int64) int64 {
	var total int64
	for _, pc := range t.PriceComponents {
		if !applies(pc.Restrictions, consumptionWh, durationSec, startTs) {
			continue
		}
		total += componentCharge(pc, consumptionWh, durationSec, t.RoundAfterVAT)
	}
	return total
}

func componentCharge(pc domain.PriceComponent, consumptionWh, durationSec int64, roundAfterVAT bool) int64 {
	qty := billableQuantity(pc.Kind, consumptionWh, durationSec)

	if roundAfterVAT {
		charge := pc.Price * qty
		charge = charge * (100 + pc.VAT) / 100
		return roundUpToStep(charge, pc.StepSize)
	}

	qty = roundUpToStep(qty, pc.StepSize)
	return pc.Price * qty * (100 + pc.VAT) / 100
}

func billableQuantity(kind domain.ComponentKind, consumptionWh, durationSec int64) int64 {
	switch kind {
	case domain.ComponentKindPerEnergy:
		return consumptionWh
	case domain.ComponentKindFlat:
		return 1
	case domain.ComponentKindPerTime:
		return durationSec
	}
	return 0
}

// applies evaluates the four restriction windows; a zero bound leaves that
// side unbounded, so an all-zero restriction always admits the session.
func applies(r domain.Restriction, consumptionWh, durationSec, startTs int64) bool {
	if r.StartDate > 0 && startTs < r.StartDate {
		return false
	}
	if r.EndDate > 0 && startTs > r.EndDate {
		return false
	}

	hour := int64(time.Unix(startTs, 0).UTC().Hour())
	if r.StartTime > 0 && hour < r.StartTime {
		return false
	}
	if r.EndTime > 0 && hour > r.EndTime {
		return false
	}

	if r.MinWh > 0 && consumptionWh < r.MinWh {
		return false
	}
	if r.MaxWh > 0 && consumptionWh > r.MaxWh {
		return false
	}

	if r.MinDuration > 0 && durationSec < r.MinDuration {
		return false
	}
	if r.MaxDuration > 0 && durationSec > r.MaxDuration {
		return false
	}

	return true
}

// roundUpToStep rounds v up to the next multiple of step when step > 0.
func roundUpToStep(v, step int64) int64 {
	if step <= 0 || v%step == 0 {
		return v
	}
	return (v/step + 1) * step
}
