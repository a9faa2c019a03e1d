package cli

import (
	"context"

	"github.com/studymate-app/studymate/internal/client/session"
)

// View seams for tests. Each view blocks until the session changes underneath
// it or the user asks to leave; it returns false to exit the program.
var (
	landingView = (*App).landing
	wizardView  = (*App).runWizard
	shellView   = (*App).shell
)

// Root is the view loop. There are no imperative transitions between views:
// on every pass the gate is re-derived from a fresh session snapshot and the
// matching view runs. A profile edit that re-opens onboarding, or a session
// drop, changes the next derivation and nothing else.
func (a *App) Root(ctx context.Context) {
	prev := session.GateLoading

	for {
		if ctx.Err() != nil {
			return
		}

		state := session.Gate(a.store.Snapshot())

		// An authenticated session that drops to signed-out gets a one-shot
		// banner on the landing view instead of a silent bounce.
		if state == session.GateUnauthenticated &&
			(prev == session.GateOnboarding || prev == session.GateReady) {
			a.notice = "Your session has ended. Please sign in to continue."
		}
		prev = state

		switch state {
		case session.GateLoading:
			if !a.waitUntilLeaves(ctx, session.GateLoading) {
				return
			}
		case session.GateUnauthenticated:
			if !landingView(a, ctx) {
				return
			}
		case session.GateOnboarding:
			if !wizardView(a, ctx) {
				return
			}
		case session.GateReady:
			if !shellView(a, ctx) {
				return
			}
		}
	}
}

// waitUntilLeaves blocks until the gate derives to something other than
// from, or ctx is done. It reports false only on ctx cancellation.
func (a *App) waitUntilLeaves(ctx context.Context, from session.GateState) bool {
	ch := make(chan struct{}, 1)
	unsub := a.store.Subscribe(func(session.Session) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	defer unsub()

	for {
		// The session may have moved between the snapshot and the subscribe,
		// and a notification may coalesce several changes.
		if session.Gate(a.store.Snapshot()) != from {
			return true
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return false
		}
	}
}
