package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/session"
)

const optionLetters = "abcd"

type commandKind int

const (
	cmdUnknown commandKind = iota
	cmdSelect
	cmdNext
	cmdPrev
	cmdJump
	cmdMap
	cmdFinish
	cmdQuit
	cmdHelp
)

type command struct {
	kind commandKind
	arg  int
}

// parseCommand understands a-d, n, p, g N (1-based), m, f, q and h.
func parseCommand(line string) command {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{kind: cmdUnknown}
	}
	switch f := fields[0]; {
	case len(f) == 1 && strings.Contains(optionLetters, f):
		return command{kind: cmdSelect, arg: strings.Index(optionLetters, f)}
	case f == "n":
		return command{kind: cmdNext}
	case f == "p":
		return command{kind: cmdPrev}
	case f == "g" && len(fields) == 2:
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{kind: cmdUnknown}
		}
		return command{kind: cmdJump, arg: n - 1}
	case f == "m":
		return command{kind: cmdMap}
	case f == "f":
		return command{kind: cmdFinish}
	case f == "q":
		return command{kind: cmdQuit}
	case f == "h" || f == "?":
		return command{kind: cmdHelp}
	}
	return command{kind: cmdUnknown}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "commands: a-d answer | n next | p previous | g N go to question N | m map | f finish | q quit")
}

func renderQuestion(w io.Writer, s *session.Session) {
	q, ok := s.Current()
	if !ok {
		return
	}
	fmt.Fprintf(w, "\n[%s left]  Question %d of %d  (%d answered)\n",
		session.FormatClock(s.RemainingSeconds()), s.Cursor()+1, s.Len(), s.AnsweredCount())
	fmt.Fprintf(w, "%s\n", q.QuestionText)

	chosen, answered := s.Answer(q.ID)
	for i, opt := range q.Options {
		marker := " "
		if answered && chosen == i {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %c) %s\n", marker, optionLetters[i], opt)
	}
}

// renderMap prints one cell per question: [n] answered, (n) open, >n< current.
func renderMap(w io.Writer, s *session.Session) {
	cells := make([]string, s.Len())
	for i := range cells {
		switch {
		case i == s.Cursor():
			cells[i] = fmt.Sprintf(">%d<", i+1)
		case s.AnsweredAt(i):
			cells[i] = fmt.Sprintf("[%d]", i+1)
		default:
			cells[i] = fmt.Sprintf("(%d)", i+1)
		}
	}
	fmt.Fprintln(w, strings.Join(cells, " "))
}

func renderResult(w io.Writer, res *model.Result, timedOut bool) {
	if timedOut {
		fmt.Fprintln(w, "\nTime is up. Your answers were submitted automatically.")
	}
	fmt.Fprintf(w, "\nScore: %.2f%%  (%d of %d correct)\n", res.Score, res.CorrectAnswers, res.TotalQuestions)
	if res.Category != "" || res.Difficulty != "" {
		fmt.Fprintf(w, "Category: %s  Difficulty: %s\n", orAny(string(res.Category)), orAny(string(res.Difficulty)))
	}
	fmt.Fprintf(w, "Result id: %s\n", res.ID)
}

func orAny(s string) string {
	if s == "" {
		return "Any"
	}
	return s
}
