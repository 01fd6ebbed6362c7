package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"aptigenius-backend/internal/client"
	"aptigenius-backend/internal/session"
)

var errQuit = errors.New("test abandoned")

func main() {
	server := flag.String("server", "http://localhost:5000", "API base URL")
	email := flag.String("email", "", "account email")
	category := flag.String("category", "", "Quantitative, Logical or Verbal (empty for any)")
	difficulty := flag.String("difficulty", "", "Easy, Medium or Hard (empty for any)")
	limit := flag.Int("limit", 0, "number of questions (0 for the server default)")
	flag.Parse()

	figure.NewFigure("APTIGENIUS", "", true).Print()
	fmt.Println()

	in := bufio.NewScanner(os.Stdin)
	if *email == "" {
		fmt.Print("Email: ")
		if !in.Scan() {
			os.Exit(1)
		}
		*email = strings.TrimSpace(in.Text())
	}
	password, err := readPassword(in)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	api := client.New(*server, nil)
	if _, err := api.Login(ctx, *email, password); err != nil {
		fatal(err)
	}

	settings, err := api.Settings(ctx)
	if err != nil {
		fatal(err)
	}
	duration := time.Duration(settings.DurationSeconds) * time.Second
	fmt.Printf("You have %s for this test.\n", session.FormatClock(settings.DurationSeconds))

	sess := session.New(*category, *difficulty, duration)
	questions, err := api.Sample(ctx, *category, *difficulty, *limit)
	if err != nil {
		sess.Abort(err)
		fatal(err)
	}
	if err := sess.Load(questions); err != nil {
		fatal(err)
	}

	if err := run(ctx, sess, api, lines(in), os.Stdout, time.Second); err != nil {
		fatal(err)
	}
}

// run drives one loaded session until it completes or aborts.
func run(ctx context.Context, sess *session.Session, submitter session.Submitter, input <-chan string, out io.Writer, tick time.Duration) error {
	runner := session.NewRunner(sess, submitter, tick)
	runner.OnTick(func(remaining int) {
		if remaining > 0 && (remaining%300 == 0 || remaining == 60 || remaining == 10) {
			fmt.Fprintf(out, "\n-- %s remaining --\n", session.FormatClock(remaining))
		}
	})
	runner.Start(ctx)

	printHelp(out)
	_ = runner.Do(func(s *session.Session) error {
		renderQuestion(out, s)
		return nil
	})

	confirming := false
loop:
	for {
		select {
		case <-runner.Done():
			break loop
		case line, ok := <-input:
			if !ok {
				runner.Abort(errQuit)
				break loop
			}
			if confirming {
				confirming = false
				if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
					if err := runner.Finish(ctx); err != nil && !errors.Is(err, session.ErrWrongState) {
						return err
					}
					break loop
				}
				fmt.Fprintln(out, "Continuing.")
				continue
			}
			cmd := parseCommand(line)
			switch cmd.kind {
			case cmdFinish:
				var open int
				_ = runner.Do(func(s *session.Session) error {
					open = s.Len() - s.AnsweredCount()
					return nil
				})
				if open > 0 {
					fmt.Fprintf(out, "%d question(s) unanswered. ", open)
				}
				fmt.Fprint(out, "Submit now? [y/N] ")
				confirming = true
			case cmdQuit:
				runner.Abort(errQuit)
				break loop
			case cmdHelp:
				printHelp(out)
			default:
				err := runner.Do(func(s *session.Session) error {
					return apply(s, cmd, out)
				})
				if err != nil {
					fmt.Fprintf(out, "! %v\n", err)
				}
			}
		}
	}

	res, err := runner.Result()
	if err != nil {
		return err
	}
	var timedOut bool
	_ = runner.Do(func(s *session.Session) error {
		timedOut = s.TimedOut()
		return nil
	})
	renderResult(out, res, timedOut)
	return nil
}

func apply(s *session.Session, cmd command, out io.Writer) error {
	var err error
	switch cmd.kind {
	case cmdSelect:
		err = s.SelectCurrent(cmd.arg)
	case cmdNext:
		err = s.Next()
	case cmdPrev:
		err = s.Previous()
	case cmdJump:
		err = s.JumpTo(cmd.arg)
	case cmdMap:
		renderMap(out, s)
		return nil
	default:
		printHelp(out)
		return nil
	}
	if err != nil {
		return err
	}
	renderQuestion(out, s)
	return nil
}

// lines feeds scanner input to a channel that closes at EOF.
func lines(in *bufio.Scanner) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		for in.Scan() {
			ch <- in.Text()
		}
	}()
	return ch
}

func readPassword(in *bufio.Scanner) (string, error) {
	fmt.Print("Password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}
	if !in.Scan() {
		return "", io.ErrUnexpectedEOF
	}
	return in.Text(), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
