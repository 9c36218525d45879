// Package advisor talks to Claude on behalf of users: a chat proxy that
// grounds answers in nearby-store query results, and a batch rater that
// assigns health scores to stores. It performs no geospatial computation.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/anthropic"
)

const chatSystemPrompt = "You are a helpful assistant for SNAP (food stamp) users in New York City. " +
	"You help people find food retailers that accept SNAP benefits near them, with a focus on " +
	"affordable access to healthy food. Answer concisely and only from the store context you are given; " +
	"if the context has no suitable store, say so rather than inventing one."

// Advisor proxies chat requests to Claude with store context attached.
type Advisor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New creates an Advisor.
func New(client anthropic.Client, model string, maxTokens int64) *Advisor {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Advisor{client: client, model: model, maxTokens: maxTokens}
}

// ChatRequest is one user turn plus the stores to ground the answer in.
type ChatRequest struct {
	SessionID string
	Message   string
	History   []anthropic.Message
	Stores    []model.StoreWithDistance
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

// Chat forwards the user's message to Claude with formatted store context.
func (a *Advisor) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, eris.New("advisor: empty message")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	system := chatSystemPrompt
	if len(req.Stores) > 0 {
		system += "\n\nNearby stores, closest first:\n" + formatStoreContext(req.Stores)
	}

	msgs := make([]anthropic.Message, 0, len(req.History)+1)
	msgs = append(msgs, req.History...)
	msgs = append(msgs, anthropic.Message{Role: "user", Content: req.Message})

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    system,
		Messages:  msgs,
	})
	if err != nil {
		return nil, eris.Wrap(err, "advisor: chat")
	}

	return &ChatResponse{SessionID: sessionID, Reply: resp.Text()}, nil
}

// formatStoreContext renders query results as compact context lines.
func formatStoreContext(stores []model.StoreWithDistance) string {
	var b strings.Builder
	for i, s := range stores {
		fmt.Fprintf(&b, "%d. %s (%s) - %s, %s %s - %.0fm away",
			i+1, s.Name, s.StoreType, s.Address, s.City, s.Zip, s.DistanceMeters)
		if s.IsHealthyStore {
			b.WriteString(" [healthy retailer]")
		}
		if s.HealthScore != nil {
			fmt.Fprintf(&b, " [health score %d/10]", *s.HealthScore)
		}
		b.WriteString("\n")
	}
	return b.String()
}
