package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mattt/moodring/tools"
)

// maxToolRounds bounds how many consecutive tool rounds one turn may take
const maxToolRounds = 8

const systemPrompt = "You are a helpful assistant with access to tools. " +
	"Use a tool when it can answer the user's question; otherwise answer directly."

// Loop drives a conversation: each turn the model either answers directly
// or requests tool calls, which are executed through the agent's sessions
// and fed back until it produces an answer.
type Loop struct {
	client   *openai.Client
	model    string
	sessions []*Session
	routes   map[string]*Session
	defs     []openai.Tool
	messages []openai.ChatCompletionMessage
	logger   *slog.Logger
}

// NewLoop creates a conversation loop over the given sessions. Tool names
// are routed to the first session that advertises them.
func NewLoop(client *openai.Client, model string, sessions []*Session, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	l := &Loop{
		client:   client,
		model:    model,
		sessions: sessions,
		routes:   make(map[string]*Session),
		logger:   logger,
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
	}

	for _, session := range sessions {
		for _, descriptor := range session.Tools() {
			if _, taken := l.routes[descriptor.Name]; taken {
				logger.Warn("duplicate tool name, keeping first", "tool", descriptor.Name, "server", session.Name())
				continue
			}
			l.routes[descriptor.Name] = session
			l.defs = append(l.defs, openai.Tool{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        descriptor.Name,
					Description: descriptor.Description,
					Parameters:  descriptor.InputSchema,
				},
			})
		}
	}

	return l
}

// Turn runs one user turn to completion and returns the model's answer
func (l *Loop) Turn(ctx context.Context, input string) (string, error) {
	l.messages = append(l.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})

	for round := 0; round < maxToolRounds; round++ {
		resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    l.model,
			Messages: l.messages,
			Tools:    l.defs,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("chat completion returned no choices")
		}

		message := resp.Choices[0].Message
		l.messages = append(l.messages, message)

		if len(message.ToolCalls) == 0 {
			return message.Content, nil
		}

		for _, call := range message.ToolCalls {
			l.logger.Info("tool call", "tool", call.Function.Name)
			l.messages = append(l.messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    l.invoke(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("turn exceeded %d tool rounds", maxToolRounds)
}

// invoke executes one requested tool call. Failures come back as error
// descriptors in the tool message, so the model can recover or apologize
// instead of the whole turn failing.
func (l *Loop) invoke(ctx context.Context, call openai.ToolCall) string {
	name := call.Function.Name

	var args map[string]interface{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return errorContent(tools.Errorf(tools.KindUsageError, "malformed tool arguments: %v", err))
		}
	}

	session, ok := l.routes[name]
	if !ok {
		return errorContent(tools.Errorf(tools.KindUsageError, "tool %q is not in the discovered descriptor set", name))
	}

	payload, err := session.Call(ctx, name, args)
	if err != nil {
		l.logger.Warn("tool call failed", "tool", name, "kind", tools.KindOf(err), "error", err)
		return errorContent(err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errorContent(err)
	}
	return string(data)
}

func errorContent(err error) string {
	data, marshalErr := json.Marshal(map[string]interface{}{
		"code":    tools.KindOf(err),
		"message": err.Error(),
	})
	if marshalErr != nil {
		return err.Error()
	}
	return string(data)
}

// Run reads user input line by line and prints each turn's answer: the
// smallest possible chat surface over the loop.
func (l *Loop) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			fmt.Fprint(out, "> ")
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}

		answer, err := l.Turn(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n> ", answer)
	}
	return scanner.Err()
}
