// Package pabt runs goals reactively with go-pabt, as an alternative to
// executing a precomputed goap.Plan.
//
// The agent's facts are mirrored into a blackboard, one boolean per fact
// name. Every goap.Action becomes a PA-BT action whose conditions require
// its precondition facts and whose effects set its effect facts. The plan
// tree grows on demand: when a condition fails, go-pabt asks the [State]
// for actions that can make it hold, and expands the tree with them.
//
// Usage:
//
//	bb := new(btmod.Blackboard)
//	state := pabt.NewState(bb, universe)
//	for _, a := range actions {
//	    state.RegisterAction(pabt.NewAction(universe, a, node))
//	}
//	plan, _ := pabt.NewPlan(state, goal)
//	status, err := plan.Tick()
//
// [Runner] wires this together for a StateSource and Performer pair, and
// ticks the tree until the goal holds.
package pabt
