package cli

import (
	"context"
	"fmt"

	"github.com/studymate-app/studymate/internal/client/session"
	"github.com/studymate-app/studymate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// landing is the signed-out view: a small command loop over sign-in,
// sign-up, and the Google redirect flow. It returns false when the user
// exits the program, and true when the session changed and the gate should
// be re-derived.
func (a *App) landing(ctx context.Context) bool {
	if a.notice != "" {
		fmt.Fprintln(a.out, a.notice)
		a.notice = ""
	}
	fmt.Fprintln(a.out, "Welcome to StudyMate (type 'help' for commands)")

	for {
		cmd, err := getSimpleText(a.reader, "studymate (signed out)", a.out)
		if err != nil {
			return false
		}

		switch cmd {
		case "", "help":
			fmt.Fprintln(a.out, "Available commands: signin, signup, google, exit")

		case "signin":
			if a.signIn(ctx) {
				return true
			}

		case "signup":
			if a.signUp(ctx) {
				return true
			}

		case "google":
			url, err := a.controller.SignInWithGoogle(ctx)
			if err != nil {
				fmt.Fprintln(a.out, err.Error())
				continue
			}
			fmt.Fprintln(a.out, "Open this URL in your browser to continue:")
			fmt.Fprintln(a.out, url)
			fmt.Fprintln(a.out, "Waiting for the sign-in to complete...")
			return a.waitUntilLeaves(ctx, session.GateUnauthenticated)

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return false

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// signIn prompts for credentials and authenticates. It reports whether the
// session changed. The failure message printed to the user is always one of
// the controller's fixed strings, never the raw backend error.
func (a *App) signIn(ctx context.Context) bool {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return false
	}

	password, err := getPassword(a.out)
	if err != nil {
		return false
	}
	defer common.WipeByteArray(password)

	if err := a.controller.SignIn(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return false
	}

	fmt.Fprintln(a.out, "Signed in.")
	// The profile resolves via a deferred fetch; wait for it to land.
	return a.waitUntilLeaves(ctx, session.GateUnauthenticated)
}

// signUp registers a new account and then signs it in.
func (a *App) signUp(ctx context.Context) bool {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return false
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return false
	}
	password, err := getPassword(a.out)
	if err != nil {
		return false
	}
	defer common.WipeByteArray(password)

	if err := a.controller.SignUp(ctx, email, string(password), name); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return false
	}

	fmt.Fprintln(a.out, "Account created.")
	if err := a.controller.SignIn(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return false
	}
	return a.waitUntilLeaves(ctx, session.GateUnauthenticated)
}
