// Package main is the reviewagent CLI. It loads a YAML agent definition,
// wires up the built-in tools and runs the agent loop against Gemini,
// printing the final answer on stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"reviewagent/internal/agent"
	"reviewagent/internal/config"
	"reviewagent/internal/logger"
	"reviewagent/internal/provider/gemini"
	"reviewagent/internal/tool"
	"reviewagent/internal/tool/builtin"
)

const defaultModel = "gemini-2.0-flash"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("reviewagent", flag.ContinueOnError)
	fs.SetOutput(stderr)
	agentPath := fs.String("agent", "", "path to the YAML agent definition (required)")
	model := fs.String("model", "", "Gemini model name (defaults to $GEMINI_MODEL, then "+defaultModel+")")
	temperature := fs.Float64("temperature", -1, "sampling temperature between 0 and 2")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	logger.SetVerbose(*verbose)
	log := logger.Named("main")

	if *agentPath == "" {
		fmt.Fprintln(stderr, "the --agent flag is required")
		fs.Usage()
		return 2
	}
	if *temperature != -1 && (*temperature < 0 || *temperature > 2) {
		fmt.Fprintln(stderr, "temperature must be between 0 and 2")
		return 2
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable is required")
		return 2
	}

	prompt, err := promptFrom(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read prompt: %v\n", err)
		return 2
	}
	if strings.TrimSpace(prompt) == "" {
		fmt.Fprintln(stderr, "no prompt given: pass it as an argument or on stdin")
		return 2
	}

	def, err := config.Load(*agentPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	tools, err := buildTools(def)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx := context.Background()
	client, err := gemini.Connect(ctx, apiKey)
	if err != nil {
		fmt.Fprintf(stderr, "failed to create Gemini client: %v\n", err)
		return 1
	}

	a := agent.New(gemini.New(client, resolveModel(*model)), tools, def.Description)
	if *temperature != -1 {
		temp := float32(*temperature)
		a.Temperature = &temp
	}

	log.WithField("agent", def.ID).Infof("running with %d tools", len(tools))
	answer, err := a.Run(ctx, prompt)
	if err != nil {
		fmt.Fprintf(stderr, "agent failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, answer)
	return 0
}

// promptFrom takes the prompt from positional arguments, or from stdin
// when none are given.
func promptFrom(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// resolveModel picks the model name from the flag, the environment, or
// the built-in default, in that order.
func resolveModel(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return defaultModel
}

// buildTools instantiates every tool the agent definition asks for.
// Individual failures are logged and skipped so one bad entry does not
// take the whole agent down, but an empty tool set is fatal.
func buildTools(def *config.Agent) ([]tool.Tool, error) {
	registry := builtin.NewRegistry()
	log := logger.Named("tools")

	var tools []tool.Tool
	for _, spec := range def.Tools {
		typ := spec.Type
		if typ == "" {
			inferred, ok := builtin.DefaultType(spec.Name)
			if !ok {
				log.Warnf("skipping unknown tool %q", spec.Name)
				continue
			}
			typ = inferred
		}
		t, err := registry.Create(tool.Spec{Name: spec.Name, Type: typ, Config: spec.Config})
		if err != nil {
			log.Warnf("skipping tool %q: %v", spec.Name, err)
			continue
		}
		tools = append(tools, t)
	}
	if len(tools) == 0 {
		return nil, fmt.Errorf("agent %q has no usable tools", def.ID)
	}
	return tools, nil
}
