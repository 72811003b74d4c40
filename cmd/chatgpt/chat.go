package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dv-team/chatgpt-go/pkg/agent"
	"github.com/dv-team/chatgpt-go/pkg/memory"
	"github.com/dv-team/chatgpt-go/pkg/prompt"
	"github.com/dv-team/chatgpt-go/pkg/provider/openai"
	"github.com/dv-team/chatgpt-go/pkg/tool"
	"github.com/dv-team/chatgpt-go/pkg/tool/builtin"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

type chatOptions struct {
	model      string
	effort     string
	system     string
	tools      bool
	schema     string
	strict     bool
	resume     string
	save       string
	noContinue bool
	history    bool
}

func newChatCmd(a *app) *cobra.Command {
	o := &chatOptions{}

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Send a prompt and print the answer",
		Long: `Send a prompt and print the answer. Without arguments the prompt is read from stdin.

Examples:
  chatgpt chat "What time is it in Tokyo?" --tools
  chatgpt chat "List three fruits" --schema fruits.json
  chatgpt chat "And now in Paris?" --resume conv.json --save conv.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd, args, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.model, "model", "", "Model name (default from config)")
	f.StringVar(&o.effort, "effort", "", "Reasoning effort: minimal, low, medium, high")
	f.StringVar(&o.system, "system", "", "Developer prompt (default from config)")
	f.BoolVar(&o.tools, "tools", false, "Enable builtin tools and web search")
	f.StringVar(&o.schema, "schema", "", "JSON schema file for structured output")
	f.BoolVar(&o.strict, "strict", false, "Use strict structured output")
	f.StringVar(&o.resume, "resume", "", "Resume a saved conversation")
	f.StringVar(&o.save, "save", "", "Save the conversation after the answer")
	f.BoolVar(&o.noContinue, "no-continue", false, "Stop after the first round, even when tools were called")
	f.BoolVar(&o.history, "history", false, "Print the whole conversation to stderr")
	return cmd
}

func (a *app) runChat(cmd *cobra.Command, args []string, o *chatOptions) error {
	text, err := readPrompt(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := a.context(cmd)
	defer cancel()

	llm := initProvider(ctx, a.cfg, a.logger)
	if c, ok := llm.(io.Closer); ok {
		defer c.Close()
	}

	cfg := agent.Config{
		Provider:    llm,
		Model:       a.cfg.Model(),
		MaxTokens:   a.cfg.Chat.MaxTokens,
		Temperature: a.cfg.Chat.Temperature,
		TopP:        a.cfg.Chat.TopP,
		MaxRounds:   a.cfg.Chat.MaxRounds,
		Logger:      a.logger,
	}

	if o.model != "" || o.effort != "" {
		name := cfg.Model.Name
		if o.model != "" {
			name = o.model
		}
		effort, ok := types.ParseEffort(o.effort)
		if o.effort != "" && !ok {
			return fmt.Errorf("invalid reasoning effort: %s", o.effort)
		}
		cfg.Model = types.CustomModel(name, effort)
	}

	system := a.cfg.Chat.SystemPrompt
	if o.system != "" {
		system = o.system
	}
	cfg.SystemPrompt = prompt.NewTemplate(system)

	if o.tools {
		cfg.Tools = builtin.All()
		if oa, err := newOpenAI(a.cfg, a.logger); err == nil {
			cfg.Tools = append(cfg.Tools, webSearchTool(a, oa))
		}
	}

	if o.schema != "" {
		data, err := os.ReadFile(o.schema)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		var schema map[string]any
		if err := json.Unmarshal(data, &schema); err != nil {
			return fmt.Errorf("failed to parse schema: %w", err)
		}
		cfg.ResponseFormat = types.NewResponseFormat(schema, o.strict)
	}

	var conv *agent.Conversation
	if o.resume != "" {
		data, err := os.ReadFile(o.resume)
		if err != nil {
			return fmt.Errorf("failed to read conversation: %w", err)
		}
		conv, err = agent.FromJSON(data, cfg)
		if err != nil {
			return err
		}
	} else {
		conv, err = agent.New(cfg)
		if err != nil {
			return err
		}
	}

	conv.AddMessage(types.NewInput(text))
	choice, err := conv.Step(ctx, !o.noContinue)
	if err != nil {
		return err
	}

	if err := printChoice(cmd.OutOrStdout(), choice); err != nil {
		return err
	}
	if o.history {
		fmt.Fprintln(cmd.ErrOrStderr(), memory.FormatHistory(conv.Context()))
	}

	if o.save != "" {
		data, err := json.MarshalIndent(conv, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.save, data, 0o644); err != nil {
			return fmt.Errorf("failed to write conversation: %w", err)
		}
		a.logger.WithField("file", o.save).Debug("conversation saved")
	}
	return nil
}

func webSearchTool(a *app, oa *openai.ChatModel) tool.Tool {
	var model *types.Model
	if a.cfg.WebSearch.Model != "" {
		m := types.CustomModel(a.cfg.WebSearch.Model, "")
		model = &m
	}
	return oa.BuildWebSearchTool(a.cfg.WebSearch.Location, model)
}

func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("prompt is required")
	}
	return text, nil
}

func printChoice(w io.Writer, choice *types.Choice) error {
	switch r := choice.Result.(type) {
	case nil:
	case string:
		fmt.Fprintln(w, r)
	default:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}

	for _, t := range choice.Tools {
		args, err := types.Stringify(t.Arguments)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "-> %s(%s) [%s]\n", t.FunctionName, args, t.ID)
	}
	return nil
}
