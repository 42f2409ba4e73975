package gemini

import (
	"bufio"
	"bytes"
	"context"
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

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type GeminiProvider struct {
	APIKey      string
	NamingModel string
	BaseURL     string
	Client      *http.Client
}

var _ llm.CompletionProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, namingModel string) *GeminiProvider {
	return &GeminiProvider{
		APIKey:      apiKey,
		NamingModel: namingModel,
		BaseURL:     defaultBaseURL,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

func mapParts(knowledge []entity.KnowledgeFile, parts []entity.Part) []geminiPart {
	mapped := make([]geminiPart, 0, len(knowledge)+len(parts))
	// Knowledge attachments go first so the model sees the grounding context
	// before the user content.
	for _, file := range knowledge {
		mapped = append(mapped, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: file.MimeType,
				Data:     llm.StripBase64Envelope(file.Base64Content),
			},
		})
	}
	for _, p := range parts {
		if p.InlineData != nil {
			mapped = append(mapped, geminiPart{
				InlineData: &geminiInlineData{
					MimeType: p.InlineData.MimeType,
					Data:     p.InlineData.Data,
				},
			})
			continue
		}
		mapped = append(mapped, geminiPart{Text: p.Text})
	}
	return mapped
}

func (g *GeminiProvider) StreamChat(
	ctx context.Context,
	model, persona string,
	knowledge []entity.KnowledgeFile,
	parts []entity.Part,
) (llm.Stream, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: constant.ChatRoleUser, Parts: mapParts(knowledge, parts)},
		},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{
				{Text: fmt.Sprintf("You are an AI assistant. Your current persona is: %s.", persona)},
			},
		},
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse", g.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	return newSSEStream(res.Body), nil
}

// sseStream parses the server-sent-event framing of streamGenerateContent.
// Each "data:" line carries one JSON response with a text delta.
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func newSSEStream(body io.ReadCloser) *sseStream {
	scanner := bufio.NewScanner(body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return &sseStream{body: body, scanner: scanner}
}

func (s *sseStream) Recv() (*llm.Chunk, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var res geminiResponse
		if err := json.Unmarshal([]byte(data), &res); err != nil {
			s.body.Close()
			return nil, fmt.Errorf("decode stream event: %w", err)
		}
		if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
			continue
		}

		var text strings.Builder
		for _, p := range res.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
		return &llm.Chunk{Text: text.String()}, nil
	}

	if err := s.scanner.Err(); err != nil {
		s.body.Close()
		return nil, fmt.Errorf("read stream: %w", err)
	}
	s.body.Close()
	return nil, io.EOF
}

func (g *GeminiProvider) NameConversation(ctx context.Context, history []entity.Turn) (string, error) {
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

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: constant.ChatRoleUser, Parts: []geminiPart{{Text: prompt}}},
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.BaseURL, g.NamingModel)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", err
	}
	if len(geminiRes.Candidates) == 0 || geminiRes.Candidates[0].Content == nil || len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty naming response")
	}

	title := strings.TrimSpace(geminiRes.Candidates[0].Content.Parts[0].Text)
	title = strings.NewReplacer(`"`, "", `'`, "").Replace(title)
	return title, nil
}
