package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-hub-be/internal/constant"
	"ai-hub-be/internal/entity"
	"ai-hub-be/pkg/llm"
)

// OllamaProvider serves completions from a local Ollama daemon. Inline binary
// parts are flattened to text placeholders; text knowledge files are decoded
// into the system context.
type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

var _ llm.CompletionProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func flattenParts(parts []entity.Part) string {
	var b strings.Builder
	for _, p := range parts {
		if p.InlineData != nil {
			fmt.Fprintf(&b, "\n[attached file, %s]", p.InlineData.MimeType)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

func systemContext(persona string, knowledge []entity.KnowledgeFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI assistant. Your current persona is: %s.", persona)
	for _, file := range knowledge {
		if !strings.HasPrefix(file.MimeType, "text/") {
			fmt.Fprintf(&b, "\n\nThe knowledge base contains a file named %q (%s).", file.Name, file.MimeType)
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(llm.StripBase64Envelope(file.Base64Content))
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n\nKnowledge file %q:\n%s", file.Name, string(decoded))
	}
	return b.String()
}

func (o *OllamaProvider) StreamChat(
	ctx context.Context,
	model, persona string,
	knowledge []entity.KnowledgeFile,
	parts []entity.Part,
) (llm.Stream, error) {
	if model == "" {
		model = o.ModelName
	}

	reqPayload := ollamaChatRequest{
		Model: model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemContext(persona, knowledge)},
			{Role: "user", Content: flattenParts(parts)},
		},
		Stream: true,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	return &ndjsonStream{body: resp.Body, decoder: json.NewDecoder(resp.Body)}, nil
}

// ndjsonStream reads Ollama's newline-delimited JSON stream.
type ndjsonStream struct {
	body    io.ReadCloser
	decoder *json.Decoder
	done    bool
}

func (s *ndjsonStream) Recv() (*llm.Chunk, error) {
	if s.done {
		return nil, io.EOF
	}
	for {
		var res ollamaChatResponse
		if err := s.decoder.Decode(&res); err != nil {
			s.body.Close()
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("decode stream line: %w", err)
		}
		if res.Done {
			s.done = true
			s.body.Close()
			if res.Message.Content != "" {
				return &llm.Chunk{Text: res.Message.Content}, nil
			}
			return nil, io.EOF
		}
		if res.Message.Content == "" {
			continue
		}
		return &llm.Chunk{Text: res.Message.Content}, nil
	}
}

func (o *OllamaProvider) NameConversation(ctx context.Context, history []entity.Turn) (string, error) {
	if len(history) < 2 {
		return constant.PlaceholderChatName, nil
	}
	userText, okUser := history[0].FirstText()
	modelText, okModel := history[1].FirstText()
	if !okUser || !okModel {
		return constant.PlaceholderChatName, nil
	}

	prompt := fmt.Sprintf(
		"Based on the following conversation, create a very short, concise title (max 5 words, and no quotes).\n\nConversation:\nUser: %q\nModel: %q",
		userText, modelText,
	)

	reqPayload := ollamaChatRequest{
		Model: o.ModelName,
		Messages: []ollamaMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}
	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var res ollamaChatResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", err
	}

	title := strings.TrimSpace(res.Message.Content)
	title = strings.NewReplacer(`"`, "", `'`, "").Replace(title)
	return title, nil
}
