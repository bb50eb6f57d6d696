package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedAsker struct {
	questions []string
	answers   map[string]string
}

func (a *scriptedAsker) Ask(_ context.Context, q string) (string, error) {
	a.questions = append(a.questions, q)
	ans, ok := a.answers[q]
	if !ok {
		return "", errors.New("chat invocation failed: boom")
	}
	return ans, nil
}

func TestRun_AnswersUntilExit(t *testing.T) {
	asker := &scriptedAsker{answers: map[string]string{"What is it?": "A tool."}}
	var out, errOut bytes.Buffer

	err := Run(context.Background(), asker, strings.NewReader("  What is it?  \n EXIT \nignored\n"), &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, []string{"What is it?"}, asker.questions)
	assert.Equal(t, "> Answer: A tool.\n\n> ", out.String())
	assert.Empty(t, errOut.String())
}

func TestRun_ErrorDoesNotStopLoop(t *testing.T) {
	asker := &scriptedAsker{answers: map[string]string{"second": "ok"}}
	var out, errOut bytes.Buffer

	err := Run(context.Background(), asker, strings.NewReader("first\nsecond\nexit\n"), &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, asker.questions)
	assert.Equal(t, "Error: chat invocation failed: boom\n", errOut.String())
	assert.Contains(t, out.String(), "Answer: ok\n\n")
}

func TestRun_EmptyLineIsForwarded(t *testing.T) {
	asker := &scriptedAsker{answers: map[string]string{"": "nothing asked"}}
	var out, errOut bytes.Buffer

	require.NoError(t, Run(context.Background(), asker, strings.NewReader("   \nexit\n"), &out, &errOut))
	assert.Equal(t, []string{""}, asker.questions)
}

func TestRun_EndOfInput(t *testing.T) {
	asker := &scriptedAsker{}
	var out, errOut bytes.Buffer

	require.NoError(t, Run(context.Background(), asker, strings.NewReader(""), &out, &errOut))
	assert.Empty(t, asker.questions)
	assert.Equal(t, "> \n", out.String())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer

	err := Run(ctx, &scriptedAsker{}, strings.NewReader("q\n"), &out, &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsExit(t *testing.T) {
	for _, s := range []string{"exit", "EXIT", " Exit\t"} {
		assert.True(t, IsExit(s), s)
	}
	for _, s := range []string{"", "quit", "exit now"} {
		assert.False(t, IsExit(s), s)
	}
}
