package gemini

import (
	"google.golang.org/genai"

	"reviewagent/internal/provider"
)

// toContents converts conversation history to Gemini Content values.
// Messages that end up with no parts are dropped.
func toContents(history []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if content := toContent(msg); content != nil {
			contents = append(contents, content)
		}
	}
	return contents
}

func toContent(msg provider.Message) *genai.Content {
	role := "user"
	if msg.Role == provider.RoleModel {
		role = "model"
	}

	var parts []*genai.Part
	if msg.Content != "" {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}
	for _, call := range msg.ToolCalls {
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				Name: call.Name,
				Args: call.Args,
			},
		})
	}
	for _, result := range msg.ToolResults {
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				Name: result.Name,
				Response: map[string]any{
					"content": result.Content,
				},
			},
		})
	}

	if len(parts) == 0 {
		return nil
	}
	return &genai.Content{Role: role, Parts: parts}
}

// toConfig builds the generation config, including the system instruction
// and the tool declarations.
func toConfig(req *provider.GenerateRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}
	if req.Temperature != nil {
		config.Temperature = req.Temperature
	}
	if len(req.Tools) > 0 {
		config.Tools = toTools(req.Tools)
	}
	return config
}

func toTools(tools []provider.ToolDefinition) []*genai.Tool {
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		fd := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}
		if t.Parameters != nil {
			fd.Parameters = toSchema(t.Parameters)
		}
		declarations = append(declarations, fd)
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

func toSchema(s *provider.Schema) *genai.Schema {
	schema := &genai.Schema{Type: toType(s.Type)}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			ps := &genai.Schema{
				Type:        toType(prop.Type),
				Description: prop.Description,
			}
			if len(prop.Enum) > 0 {
				ps.Enum = prop.Enum
			}
			schema.Properties[name] = ps
		}
	}
	if len(s.Required) > 0 {
		schema.Required = s.Required
	}
	return schema
}

func toType(typeStr string) genai.Type {
	switch typeStr {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromResponse flattens the first candidate into text plus tool calls.
func fromResponse(resp *genai.GenerateContentResponse) *provider.Response {
	out := &provider.Response{}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.Text += part.Text
		}
		if part.FunctionCall != nil {
			out.ToolCalls = append(out.ToolCalls, provider.ToolCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}
	return out
}
