// Package rxstore is a small push-based state container.
//
// A Store folds dispatched actions into state with a pure reducer, publishes
// every action on Actions and every distinct state on States, and runs effects
// that observe the store and feed follow-up batches back into Dispatch.
//
// Allowed here:
// - action/transition contracts, observables, switching, serialized dispatch
//
// Not allowed here:
// - any concrete state or action set (those live with the store that owns them)
package rxstore
