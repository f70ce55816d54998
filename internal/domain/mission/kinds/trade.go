package kinds

import (
	"math"

	"github.com/mars-sim/mars-sim-sub009/internal/domain/mission"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/resource"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/settlement"
	"github.com/mars-sim/mars-sim-sub009/internal/domain/worker"
)

var (
	PhaseTradeDisembarking = mission.NewPhase("TRADE_DISEMBARKING", "Disembarking at {0} to trade")
	PhaseTradeNegotiating  = mission.NewPhase("TRADE_NEGOTIATING", "Negotiating a trade at {0}")
	PhaseUnloadGoods       = mission.NewPhase("UNLOAD_GOODS", "Unloading goods at {0}")
	PhaseLoadGoods         = mission.NewPhase("LOAD_GOODS", "Loading goods at {0}")
	PhaseTradeEmbarking    = mission.NewPhase("TRADE_EMBARKING", "Embarking at {0}")

	StatusNoTradingSettlement = mission.NewStatus("NO_TRADING_SETTLEMENT", true)
)

const (
	maxTradeMembers = 2
	// tradeLotKg caps each good of a default trade
	tradeLotKg = 300.0
)

// TradeOptions describes a trade run
type TradeOptions struct {
	// TradingSettlement names the partner; empty picks the closest other settlement
	TradingSettlement string
	Sell              *resource.Manifest
	Buy               *resource.Manifest
	NeedsReview       bool
}

// Trade drives goods to another settlement, sells the load, buys goods there and brings them home.
// A delivery is the same run flown by a drone with the crew piloting from home.
type Trade struct {
	*mission.VehicleMission

	trading    *settlement.Settlement
	sell       *resource.Manifest
	buy        *resource.Manifest
	sold       *resource.Manifest
	bought     *resource.Manifest
	negotiator string
	traded     bool
}

// NewTrade plans a rover trade run
func NewTrade(env *mission.Environment, starter worker.Worker, opts TradeOptions) (*Trade, error) {
	return newTrade(env, starter, opts, mission.TypeTrade, false)
}

// NewDelivery plans a drone delivery run
func NewDelivery(env *mission.Environment, starter worker.Worker, opts TradeOptions) (*Trade, error) {
	return newTrade(env, starter, opts, mission.TypeDelivery, true)
}

func newTrade(env *mission.Environment, starter worker.Worker, opts TradeOptions, t mission.Type, useDrone bool) (*Trade, error) {
	vm, err := startVehicleMission(env, mission.Config{
		Type:       t,
		Starter:    starter,
		MinMembers: 1,
		Capacity:   maxTradeMembers,
	}, useDrone)
	if err != nil {
		return nil, err
	}

	tr := &Trade{
		VehicleMission: vm,
		sell:           orEmpty(opts.Sell),
		buy:            orEmpty(opts.Buy),
		sold:           resource.NewManifest(),
		bought:         resource.NewManifest(),
	}
	m := vm.M
	for _, p := range []mission.Phase{PhaseTradeDisembarking, PhaseTradeNegotiating, PhaseUnloadGoods, PhaseLoadGoods, PhaseTradeEmbarking} {
		m.AddPhase(p)
	}
	m.Attach(tr)

	home := startingSettlement(m)
	tr.trading = chooseTradingSettlement(env.Settlements, home, opts.TradingSettlement)
	if tr.trading == nil {
		m.Logf("WARNING", "no settlement to trade with")
		m.EndMission(StatusNoTradingSettlement)
		return tr, nil
	}
	if !vm.ReserveVehicle() {
		return tr, nil
	}
	fitCapacityToVehicle(vm)
	if opts.Sell == nil && opts.Buy == nil {
		tr.sell, tr.buy = defaultTradeGoods(home, tr.trading)
	}
	vm.AddSettlementNavpoint(tr.trading)
	vm.AddSettlementNavpoint(home)
	finishSetup(vm, starter, opts.NeedsReview)
	return tr, nil
}

func orEmpty(m *resource.Manifest) *resource.Manifest {
	if m == nil {
		return resource.NewManifest()
	}
	return m.Clone()
}

// defaultTradeGoods sells raw materials home has dug up and buys the life support the partner holds
// more of than home
func defaultTradeGoods(home, partner *settlement.Settlement) (sell, buy *resource.Manifest) {
	sell = resource.NewManifest()
	for _, id := range append([]resource.ID{resource.Ice, resource.Regolith}, resource.Minerals...) {
		if q := math.Min(home.Inventory().AmountStored(id), tradeLotKg); q > 0 {
			sell.Set(id, q)
		}
	}
	buy = resource.NewManifest()
	for _, id := range []resource.ID{resource.Food, resource.Water, resource.Oxygen} {
		surplus := partner.Inventory().AmountStored(id) - home.Inventory().AmountStored(id)
		if q := math.Min(surplus/2, tradeLotKg); q > 0 {
			buy.Set(id, q)
		}
	}
	return sell, buy
}

// chooseTradingSettlement resolves the named partner, or the closest settlement other than home
func chooseTradingSettlement(registry *settlement.Registry, home *settlement.Settlement, name string) *settlement.Settlement {
	if home == nil {
		return nil
	}
	if name != "" {
		if s := registry.Find(name); s != nil && s.Name() != home.Name() {
			return s
		}
		return nil
	}
	var best *settlement.Settlement
	bestDistance := math.Inf(1)
	for _, s := range registry.All() {
		if s.Name() == home.Name() {
			continue
		}
		if d := home.Coordinates().DistanceTo(s.Coordinates()); d < bestDistance {
			best, bestDistance = s, d
		}
	}
	return best
}

func (t *Trade) Mission() *mission.Mission                 { return t.M }
func (t *Trade) TradingSettlement() *settlement.Settlement { return t.trading }
func (t *Trade) Sold() *resource.Manifest                  { return t.sold.Clone() }
func (t *Trade) Bought() *resource.Manifest                { return t.bought.Clone() }
func (t *Trade) HasTraded() bool                           { return t.traded }

func (t *Trade) atTradingSettlement() bool {
	n, ok := t.CurrentNavpoint()
	return ok && t.trading != nil && n.Settlement() == t.trading.Name()
}

// DetermineNewPhase inserts the trading phases when the vehicle stops at the partner settlement
func (t *Trade) DetermineNewPhase() bool {
	m := t.M
	switch m.Phase() {
	case mission.PhaseTravelling:
		if t.atTradingSettlement() && !t.traded && !m.IsAborted() {
			m.SetPhase(PhaseTradeDisembarking, t.trading.Name())
			return true
		}
	case PhaseTradeDisembarking:
		m.SetPhase(PhaseTradeNegotiating, t.trading.Name())
		return true
	case PhaseTradeNegotiating:
		m.SetPhase(PhaseUnloadGoods, t.trading.Name())
		return true
	case PhaseUnloadGoods:
		m.SetPhase(PhaseLoadGoods, t.trading.Name())
		return true
	case PhaseLoadGoods:
		m.SetPhase(PhaseTradeEmbarking, t.trading.Name())
		return true
	case PhaseTradeEmbarking:
		t.traded = true
		t.StartTravellingPhase()
		return true
	}
	return t.VehicleMission.DetermineNewPhase()
}

func (t *Trade) PerformPhase(member worker.Worker) {
	switch t.M.Phase() {
	case PhaseTradeDisembarking:
		t.performTradeDisembarking(member)
	case PhaseTradeNegotiating:
		t.performNegotiation(member)
	case PhaseUnloadGoods:
		t.performUnloadGoods(member)
	case PhaseLoadGoods:
		t.performLoadGoods(member)
	case PhaseTradeEmbarking:
		t.PerformDepartingFromSettlement(member)
	default:
		t.VehicleMission.PerformPhase(member)
	}
}

func (t *Trade) performTradeDisembarking(member worker.Worker) {
	v := t.Vehicle()
	if v == nil {
		t.M.SetPhaseEnded(true)
		return
	}
	t.ParkAt(t.trading)
	if v.IsRover() {
		t.DisembarkMember(member, t.trading)
	}
	if !v.IsRover() || v.CrewCount() == 0 {
		t.M.SetPhaseEnded(true)
	}
}

// performNegotiation lets one person strike the deal. Once the negotiation time passes the buy list
// is cut to what the partner holds and the sell list to what the vehicle can spare.
func (t *Trade) performNegotiation(member worker.Worker) {
	if t.negotiator == "" {
		if _, ok := member.(*worker.Person); ok || len(t.M.People()) == 0 {
			t.negotiator = member.Name()
		}
	}
	if member.Name() != t.negotiator {
		return
	}
	member.AssignTask(worker.Task{Name: worker.TaskNegotiateTrade, Mission: t.M.ID(), Target: t.trading.Name()})
	if t.M.PhaseDuration() < t.M.Environment().Tuning.NegotiationMillisols {
		return
	}

	t.buy = available(t.buy, t.trading.Inventory())
	t.sell = t.sellable()
	t.M.Logf("INFO", "%s agreed to sell %s and buy %s at %s", member.Name(), manifestSummary(t.sell), manifestSummary(t.buy), t.trading.Name())
	member.AssignTask(worker.Task{})
	t.M.SetPhaseEnded(true)
}

// sellable is the sell list minus what the trip home consumes
func (t *Trade) sellable() *resource.Manifest {
	out := resource.NewManifest()
	v := t.Vehicle()
	if v == nil {
		return out
	}
	needed := t.ResourcesNeededForRemainingMission(false)
	t.sell.Each(func(id resource.ID, quantity float64) bool {
		spare := v.Inventory().Stored(id) - needed.Get(id)
		if q := math.Min(quantity, spare); q > 0 {
			out.Set(id, q)
		}
		return true
	})
	return out
}

func (t *Trade) performUnloadGoods(member worker.Worker) {
	if v := t.Vehicle(); v != nil {
		member.AssignTask(worker.Task{Name: worker.TaskUnloadVehicle, Mission: t.M.ID(), Target: v.Name()})
		t.sold = transfer(t.sell, v.Inventory(), t.trading.Inventory())
		member.AssignTask(worker.Task{})
	}
	t.M.SetPhaseEnded(true)
}

func (t *Trade) performLoadGoods(member worker.Worker) {
	if v := t.Vehicle(); v != nil {
		member.AssignTask(worker.Task{Name: worker.TaskLoadVehicle, Mission: t.M.ID(), Target: v.Name()})
		t.bought = transfer(t.buy, t.trading.Inventory(), v.Inventory())
		member.AssignTask(worker.Task{})
	}
	t.M.SetPhaseEnded(true)
}

// OptionalCargoToLoad carries the goods to sell
func (t *Trade) OptionalCargoToLoad() *resource.Manifest {
	if t.traded {
		return resource.NewManifest()
	}
	return t.sell.Clone()
}

// EstimatedRemainingMissionTime adds the negotiation until the trade is done
func (t *Trade) EstimatedRemainingMissionTime(useMargin bool) float64 {
	total := t.VehicleMission.EstimatedRemainingMissionTime(useMargin)
	if !t.traded {
		total += t.M.Environment().Tuning.NegotiationMillisols
	}
	return total
}

// ResourcesNeededForRemainingMission covers the route plus the stay at the partner
func (t *Trade) ResourcesNeededForRemainingMission(useMargin bool) *resource.Manifest {
	out := t.VehicleMission.ResourcesNeededForRemainingMission(useMargin).Clone()
	if !t.traded {
		out.Merge(lifeSupport(t.VehicleMission, t.M.Environment().Tuning.NegotiationMillisols, useMargin))
	}
	return out
}

func (t *Trade) ContributeData(data *mission.MissionData) {
	t.VehicleMission.ContributeData(data)
	if data.Details == nil {
		data.Details = make(map[string]string)
	}
	if t.trading != nil {
		data.Details["trading_settlement"] = t.trading.Name()
	}
	data.Details["sell"] = manifestSummary(t.sell)
	data.Details["buy"] = manifestSummary(t.buy)
	data.Details["sold"] = manifestSummary(t.sold)
	data.Details["bought"] = manifestSummary(t.bought)
}
