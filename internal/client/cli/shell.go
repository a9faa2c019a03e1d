package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/studymate-app/studymate/internal/client/models"
	"github.com/studymate-app/studymate/internal/client/session"
)

// shell is the signed-in view: a command loop over the study features. Tabs
// are just the prompt's notion of "where you are"; every command works from
// anywhere. It returns false when the user exits the program, and true when
// the session changed underneath it (sign-out, profile edit) and the gate
// should be re-derived.
func (a *App) shell(ctx context.Context) bool {
	fmt.Fprintln(a.out, "Welcome back! (type 'help' for commands)")
	tab := "dashboard"

	for {
		snap := a.store.Snapshot()
		if session.Gate(snap) != session.GateReady {
			return true
		}
		p := snap.Profile

		line, err := getSimpleText(a.reader, fmt.Sprintf("studymate [%s] %s", tab, p.Name), a.out)
		if err != nil {
			return false
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Tabs: dashboard, decks, quiz, mindmap, achievements, notifications, settings")
			fmt.Fprintln(a.out, "Commands: generate <topic>, quiz <topic>, mindmap <topic>, refresh, signout, exit")

		case "dashboard", "decks", "achievements", "notifications", "settings":
			tab = cmd
			a.renderTab(ctx, tab, p.UserID)

		case "generate":
			a.generateDeck(ctx, p.UserID, strings.Join(args, " "))

		case "quiz":
			tab = "quiz"
			a.runQuiz(ctx, strings.Join(args, " "))

		case "mindmap":
			tab = "mindmap"
			a.showMindMap(ctx, strings.Join(args, " "))

		case "darkmode":
			a.toggleDarkMode(ctx, args)

		case "refresh":
			if err := a.controller.Refetch(ctx); err != nil {
				fmt.Fprintln(a.out, "Refresh failed:", err)
			}

		case "signout":
			if err := a.controller.SignOut(ctx); err != nil {
				fmt.Fprintln(a.out, "Sign-out failed, you are still signed in:", err)
				continue
			}
			return true

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return false

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) renderTab(ctx context.Context, tab, userID string) {
	switch tab {
	case "dashboard":
		a.renderDashboard()
	case "decks":
		decks, err := a.study.ListDecks(ctx, userID)
		if err != nil {
			fmt.Fprintln(a.out, "Could not load decks:", err)
			return
		}
		if len(decks) == 0 {
			fmt.Fprintln(a.out, "No decks yet. Try: generate <topic>")
			return
		}
		for _, d := range decks {
			fmt.Fprintf(a.out, "  %s [%s] (%d cards)\n", d.Title, d.Subject, len(d.Cards))
		}
	case "achievements":
		achievements, err := a.study.ListAchievements(ctx, userID)
		if err != nil {
			fmt.Fprintln(a.out, "Could not load achievements:", err)
			return
		}
		for _, ach := range achievements {
			fmt.Fprintf(a.out, "  %s (+%d XP)\n", ach.Title, ach.XP)
		}
	case "notifications":
		notifications, err := a.study.ListNotifications(ctx, userID)
		if err != nil {
			fmt.Fprintln(a.out, "Could not load notifications:", err)
			return
		}
		for _, n := range notifications {
			fmt.Fprintf(a.out, "  %s: %s\n", n.Title, n.Body)
		}
	case "settings":
		dark, err := a.prefs.DarkMode(ctx)
		if err == nil {
			fmt.Fprintf(a.out, "  dark mode: %v (toggle with 'darkmode on|off')\n", dark)
		}
	}
}

func (a *App) renderDashboard() {
	p := a.store.Snapshot().Profile
	if p == nil {
		return
	}
	fmt.Fprintf(a.out, "  %s (%s)\n", p.Name, p.UserType)
	switch {
	case p.ExamType != "":
		fmt.Fprintf(a.out, "  preparing for %s, target %s\n", p.ExamType, p.TargetYear)
	case p.College != "":
		fmt.Fprintf(a.out, "  %s, %s, semester %s\n", p.College, p.Course, p.Semester)
	}
	fmt.Fprintf(a.out, "  streak: %d days | level %d | %d XP | %.1f hours studied\n",
		p.StudyStreak, p.Level, p.ExperiencePoints, p.TotalStudyHours)
}

// generateDeck asks the AI for flashcards on a topic and optionally saves
// the resulting deck.
func (a *App) generateDeck(ctx context.Context, userID, topic string) {
	if topic == "" {
		fmt.Fprintln(a.out, "Usage: generate <topic>")
		return
	}
	subject, err := getSimpleText(a.reader, "Subject (optional)", a.out)
	if err != nil {
		return
	}

	deck, err := a.study.GenerateFlashcards(ctx, userID, subject, topic, 10)
	if err != nil {
		fmt.Fprintln(a.out, "Generation failed:", err)
		return
	}
	for i, card := range deck.Cards {
		fmt.Fprintf(a.out, "  %d. %s\n     %s\n", i+1, card.Front, card.Back)
	}

	answer, err := getSimpleText(a.reader, "Save this deck? (y/n)", a.out)
	if err != nil || !strings.EqualFold(answer, "y") {
		return
	}
	if err := a.study.SaveDeck(ctx, deck); err != nil {
		fmt.Fprintln(a.out, "Could not save the deck:", err)
		return
	}
	fmt.Fprintln(a.out, "Saved.")
}

// runQuiz generates a quiz and walks through it, scoring answers.
func (a *App) runQuiz(ctx context.Context, topic string) {
	if topic == "" {
		fmt.Fprintln(a.out, "Usage: quiz <topic>")
		return
	}
	quiz, err := a.study.GenerateQuiz(ctx, topic, 5)
	if err != nil {
		fmt.Fprintln(a.out, "Generation failed:", err)
		return
	}

	score := 0
	for i, q := range quiz.Questions {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, q.Prompt)
		for j, opt := range q.Options {
			fmt.Fprintf(a.out, "   %d) %s\n", j+1, opt)
		}
		answer, err := getSimpleText(a.reader, "Your answer", a.out)
		if err != nil {
			return
		}
		if n, err := strconv.Atoi(answer); err == nil && n-1 == q.Answer {
			fmt.Fprintln(a.out, "Correct!")
			score++
		} else if q.Answer >= 0 && q.Answer < len(q.Options) {
			fmt.Fprintf(a.out, "Not quite, it was: %s\n", q.Options[q.Answer])
		}
	}
	fmt.Fprintf(a.out, "You scored %d/%d.\n", score, len(quiz.Questions))
}

func (a *App) showMindMap(ctx context.Context, topic string) {
	if topic == "" {
		fmt.Fprintln(a.out, "Usage: mindmap <topic>")
		return
	}
	root, err := a.study.GenerateMindMap(ctx, topic)
	if err != nil {
		fmt.Fprintln(a.out, "Generation failed:", err)
		return
	}
	a.printNode(*root, 0)
}

func (a *App) printNode(n models.MindMapNode, depth int) {
	fmt.Fprintf(a.out, "%s- %s\n", strings.Repeat("  ", depth), n.Label)
	for _, child := range n.Children {
		a.printNode(child, depth+1)
	}
}

func (a *App) toggleDarkMode(ctx context.Context, args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(a.out, "Usage: darkmode on|off")
		return
	}
	if err := a.prefs.SetDarkMode(ctx, args[0] == "on"); err != nil {
		fmt.Fprintln(a.out, "Could not save the preference:", err)
		return
	}
	fmt.Fprintln(a.out, "Done.")
}
