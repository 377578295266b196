package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"

	"google.golang.org/genai"
)

const prompt = "assist> "

// exitWords end the conversation.
var exitWords = []string{"bye", "exit", "quit"}

// Agent is a conversation with a facilitator that delegates the questions to
// experts.
type Agent struct {
	out         io.Writer
	in          *bufio.Scanner
	facilitator *Expert
	experts     []*Expert

	// Print displays an answer in markdown. Answers are written as is to the
	// output when nil.
	Print func(markdown string)
}

// New returns an Agent reading questions from r and writing to w. Its
// facilitator runs on model.
func New(w io.Writer, r io.Reader, model string, experts ...*Expert) *Agent {
	return &Agent{
		out:         w,
		in:          bufio.NewScanner(r),
		facilitator: newFacilitator(model, experts...),
		experts:     experts,
	}
}

// start opens the chat of every expert, the facilitator last.
func (a *Agent) start(ctx context.Context, client *genai.Client) error {
	for _, e := range append(slices.Clone(a.experts), a.facilitator) {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start %s: %w", e.Name, err)
		}
	}
	return nil
}

// Run answers questions until the user leaves or the input ends. The
// scripted questions are asked first.
func (a *Agent) Run(ctx context.Context, client *genai.Client, scripted ...string) error {
	if a.facilitator.chat == nil {
		if err := a.start(ctx, client); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "Welcome to fsim sale assist, ask anything about your assets and scenarios. Type %q to leave.\n", exitWords[0])

	next := a.questions(scripted)
	for {
		fmt.Fprint(a.out, prompt)
		q, ok, err := next()
		if err != nil {
			return err
		}
		if !ok || slices.Contains(exitWords, q) {
			return nil
		}
		if q == "" {
			continue
		}
		if err := a.answer(ctx, q); err != nil {
			return err
		}
	}
}

// questions returns a function yielding the scripted questions, echoed after
// the prompt, then the lines read from the input. ok is false at the end of
// the input.
func (a *Agent) questions(scripted []string) func() (q string, ok bool, err error) {
	return func() (string, bool, error) {
		if len(scripted) > 0 {
			q := strings.TrimSpace(scripted[0])
			scripted = scripted[1:]
			fmt.Fprintln(a.out, q)
			return q, true, nil
		}
		if !a.in.Scan() {
			return "", false, a.in.Err()
		}
		return strings.TrimSpace(a.in.Text()), true, nil
	}
}

func (a *Agent) answer(ctx context.Context, q string) error {
	content, err := a.facilitator.Ask(ctx, &genai.Part{Text: q})
	if err != nil {
		return err
	}
	log.Printf("assist-answer question=%q", q)
	if a.Print != nil {
		a.Print(Text(content))
		return nil
	}
	_, err = fmt.Fprintln(a.out, Text(content))
	return err
}
