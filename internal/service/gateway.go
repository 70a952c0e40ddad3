package service

import (
	"context"
	"fmt"

	"github.com/nimbusdesk/supportchat/internal/adapter/llm"
)

// maxReplyTokens caps generated output length per completion.
const maxReplyTokens = 500

// systemInstruction is the fixed persona and knowledge text prepended to
// every completion call.
const systemInstruction = `You are the customer support assistant for Nimbus Outfitters, an online store for outdoor gear and apparel.

Store facts:
- Support hours: Monday through Friday, 9am to 6pm Eastern; closed on public holidays.
- Orders ship within 2 business days; standard delivery takes 3-7 business days, express 1-2.
- Returns are accepted within 30 days of delivery for unused items in original packaging; refunds are issued to the original payment method within 5 business days of receiving the return.
- Order status can be checked with the order number from the confirmation email.
- Gift cards never expire and cannot be exchanged for cash.

Answer briefly and politely. Only answer questions about Nimbus Outfitters, its products, orders, shipping, and returns. If a question is outside that scope, or you are not sure of the answer, say so and suggest emailing support@nimbusoutfitters.example. Never invent order details, prices, or policies.`

// complete performs a single completion call: fixed system instruction, the
// supplied prior turns, and the current message as the final turn. No retry;
// failures propagate for classification.
func (s *Service) complete(ctx context.Context, history []Turn, current string) (string, error) {
	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: systemInstruction})
	for _, t := range history {
		messages = append(messages, llm.ChatMessage{Role: t.Role, Content: t.Text})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: current})

	maxTokens := maxReplyTokens
	resp, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:     s.config.LLMModel,
		Messages:  messages,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "", fmt.Errorf("llm returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
